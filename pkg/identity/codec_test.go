package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	identities := []ExecutionIdentity{
		{Initialized: true},
		{Initialized: true, SliceID: 2, SliceIndex: 0, GangSize: 4, CommandCount: 7, Writer: true},
		{Initialized: true, SliceID: 0, SliceIndex: 3, GangSize: 4, CommandCount: 1, Writer: false},
		{Initialized: true, SliceID: 11, SliceIndex: 127, GangSize: 128, CommandCount: 1048576, Writer: true},
	}
	for _, id := range identities {
		token, ok := EncodeProcessIdentity(id)
		require.True(t, ok)

		decoded, ok := DecodeProcessIdentity(token)
		require.True(t, ok, "token: %s", token)
		require.Equal(t, id, decoded)
	}
}

func TestEncodeProducesExactWireFormat(t *testing.T) {
	token, ok := EncodeProcessIdentity(ExecutionIdentity{
		Initialized:  true,
		SliceID:      2,
		SliceIndex:   0,
		GangSize:     4,
		CommandCount: 7,
		Writer:       true,
	})
	require.True(t, ok)
	require.Equal(t, "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity", token)
}

func TestEncodeUnsetIdentityIsAbsent(t *testing.T) {
	token, ok := EncodeProcessIdentity(ExecutionIdentity{})
	require.False(t, ok)
	require.Empty(t, token)
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	malformed := map[string]string{
		"empty string":              "",
		"missing begin marker":      "slice_2_idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity",
		"corrupted field label":     "ProcessIdentity_Begin_sl1ce_2_idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity",
		"non-numeric value":         "ProcessIdentity_Begin_slice_2_idx_0_gang_four_cmd_7_writer_t_End_ProcessIdentity",
		"empty digit run":           "ProcessIdentity_Begin_slice__idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity",
		"negative value":            "ProcessIdentity_Begin_slice_-2_idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity",
		"digits without terminator": "ProcessIdentity_Begin_slice_2idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity",
		"invalid writer flag":       "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_x_End_ProcessIdentity",
		"writer without terminator": "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_tEnd_ProcessIdentity",
		"truncated mid-field":       "ProcessIdentity_Begin_slice_2_idx_0_gang_4",
		"missing end marker":        "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_t_",
		"corrupted end marker":      "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_t_End_Processldentity",
	}
	for name, token := range malformed {
		t.Run(name, func(t *testing.T) {
			decoded, ok := DecodeProcessIdentity(token)
			require.False(t, ok)
			require.Equal(t, ExecutionIdentity{}, decoded)
		})
	}
}

// The decoder stops at the end marker and does not inspect what follows.
// This test pins the current behavior so that any future tightening is a
// deliberate change, not an accident.
func TestDecodeToleratesTrailingBytes(t *testing.T) {
	token := "ProcessIdentity_Begin_slice_2_idx_0_gang_4_cmd_7_writer_t_End_ProcessIdentity_trailing_garbage"
	decoded, ok := DecodeProcessIdentity(token)
	require.True(t, ok)
	require.Equal(t, 2, decoded.SliceID)
	require.True(t, decoded.Writer)
}
