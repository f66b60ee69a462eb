package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    FID
		expectError bool
	}{
		{name: "valid fid", input: "3621", expected: FID(3621)},
		{name: "surrounding whitespace", input: "  42 ", expected: FID(42)},
		{name: "empty", input: "", expectError: true},
		{name: "zero", input: "0", expectError: true},
		{name: "negative", input: "-5", expectError: true},
		{name: "not a number", input: "dwr.eth", expectError: true},
		{name: "decimal", input: "12.5", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fid, err := ParseFID(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidIdentity))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fid)
		})
	}
}

func TestBestRank(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rank
		expected Rank
	}{
		{name: "both unranked", a: Unranked, b: Unranked, expected: Unranked},
		{name: "left unranked", a: Unranked, b: 12, expected: 12},
		{name: "right unranked", a: 7, b: Unranked, expected: 7},
		{name: "lower wins", a: 30, b: 4, expected: 4},
		{name: "zero is unranked", a: 0, b: 9, expected: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BestRank(tt.a, tt.b))
		})
	}
}

func TestRank_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		R Rank `json:"r"`
	}{R: Unranked})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"unranked"}`, string(data))

	data, err = json.Marshal(Rank(15))
	require.NoError(t, err)
	assert.Equal(t, "15", string(data))

	var r Rank
	require.NoError(t, json.Unmarshal([]byte(`"unranked"`), &r))
	assert.Equal(t, Unranked, r)
	require.NoError(t, json.Unmarshal([]byte(`"88"`), &r))
	assert.Equal(t, Rank(88), r)
	require.NoError(t, json.Unmarshal([]byte(`3`), &r))
	assert.Equal(t, Rank(3), r)
}

func TestAllowanceWindow_Contains(t *testing.T) {
	start := time.Date(2024, 4, 1, 7, 35, 0, 0, time.UTC)
	w := AllowanceWindow{Start: start, End: start.Add(24 * time.Hour)}

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(start.Add(23*time.Hour)))
	assert.False(t, w.Contains(start.Add(24*time.Hour)))
	assert.False(t, w.Contains(start.Add(-time.Second)))
}

func TestNormalizeEthereumAddress(t *testing.T) {
	lower, ok := NormalizeEthereumAddress("0x4ed4e862860bed51a9570b96d89af5e1b0efefed")
	require.True(t, ok)
	mixed, ok := NormalizeEthereumAddress(DEGEN_CONTRACT_ADDRESS)
	require.True(t, ok)
	assert.Equal(t, mixed, lower)

	_, ok = NormalizeEthereumAddress("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU")
	assert.False(t, ok)
}

func TestEmptyReport(t *testing.T) {
	ws := time.Date(2024, 4, 1, 7, 35, 0, 0, time.UTC)
	report := EmptyReport(FID(10), ws, "timeout")

	assert.Equal(t, FID(10), report.FID)
	assert.Equal(t, Unranked, report.Rank)
	assert.Zero(t, report.Ceiling)
	assert.Zero(t, report.Consumed)
	assert.NotNil(t, report.Points)
	assert.Equal(t, []string{"timeout"}, report.Degraded)
}
