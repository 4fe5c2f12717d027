package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avhall/protokoll/internal/protocol"
)

func TestReportStatusLabels(testInstance *testing.T) {
	testCases := []struct {
		name          string
		status        protocol.ReportStatus
		expectedLabel string
	}{
		{name: "on_track", status: protocol.StatusOnTrack, expectedLabel: "🟢 På spår"},
		{name: "slightly_behind", status: protocol.StatusSlightlyBehind, expectedLabel: "🟡 Lite efter"},
		{name: "needs_help", status: protocol.StatusNeedsHelp, expectedLabel: "🔴 Behöver hjälp"},
		{name: "unrecognized_defaults_to_on_track", status: protocol.ReportStatus(42), expectedLabel: "🟢 På spår"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedLabel, testCase.status.Label())
		})
	}
}

func TestParseStatusLabel(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusText     string
		expectedStatus protocol.ReportStatus
	}{
		{name: "green_glyph", statusText: "🟢 På spår", expectedStatus: protocol.StatusOnTrack},
		{name: "yellow_glyph", statusText: "🟡 Lite efter", expectedStatus: protocol.StatusSlightlyBehind},
		{name: "red_glyph", statusText: "🔴 Behöver hjälp", expectedStatus: protocol.StatusNeedsHelp},
		{name: "glyph_with_surrounding_text", statusText: "nu 🔴 direkt", expectedStatus: protocol.StatusNeedsHelp},
		{name: "no_glyph_defaults_to_on_track", statusText: "allt är bra", expectedStatus: protocol.StatusOnTrack},
		{name: "empty_defaults_to_on_track", statusText: "", expectedStatus: protocol.StatusOnTrack},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStatus, protocol.ParseStatusLabel(testCase.statusText))
		})
	}
}

func TestParseStatusName(testInstance *testing.T) {
	parsedStatus, parseError := protocol.ParseStatusName("needs-help")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, protocol.StatusNeedsHelp, parsedStatus)

	parsedStatus, parseError = protocol.ParseStatusName("")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, protocol.StatusOnTrack, parsedStatus)

	_, parseError = protocol.ParseStatusName("blocked")
	require.ErrorIs(testInstance, parseError, protocol.ErrUnknownStatusName)
}

func TestStatusNameRoundTrip(testInstance *testing.T) {
	for _, status := range []protocol.ReportStatus{protocol.StatusOnTrack, protocol.StatusSlightlyBehind, protocol.StatusNeedsHelp} {
		parsedStatus, parseError := protocol.ParseStatusName(status.Name())
		require.NoError(testInstance, parseError)
		require.Equal(testInstance, status, parsedStatus)
	}
}
