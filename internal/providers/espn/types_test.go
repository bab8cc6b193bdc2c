package espn

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUnmarshalFullTimestamp(t *testing.T) {
	var parsed Time
	require.NoError(t, json.Unmarshal([]byte(`"2025-10-05T17:00:00Z"`), &parsed))
	assert.Equal(t, time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC), parsed.Time)
}

func TestTimeUnmarshalNoSeconds(t *testing.T) {
	var parsed Time
	require.NoError(t, json.Unmarshal([]byte(`"2025-10-05T17:00Z"`), &parsed))
	assert.Equal(t, time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC), parsed.Time)
}

func TestTimeUnmarshalNull(t *testing.T) {
	var parsed Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &parsed))
	assert.True(t, parsed.IsZero())
}

func TestScoreUnmarshalQuotedString(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`"24"`), &score))
	assert.True(t, score.OK)
	assert.Equal(t, 24, score.Value)
}

func TestScoreUnmarshalBareNumber(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`24`), &score))
	assert.True(t, score.OK)
	assert.Equal(t, 24, score.Value)
}

func TestScoreUnmarshalObject(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`{"value": 24, "displayValue": "24"}`), &score))
	assert.True(t, score.OK)
	assert.Equal(t, 24, score.Value)
}

func TestScoreUnmarshalObjectDisplayOnly(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`{"displayValue": "3"}`), &score))
	assert.True(t, score.OK)
	assert.Equal(t, 3, score.Value)
}

func TestScoreUnmarshalNonNumericString(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`"-"`), &score))
	assert.False(t, score.OK)
}

func TestScoreUnmarshalNull(t *testing.T) {
	var score Score
	require.NoError(t, json.Unmarshal([]byte(`null`), &score))
	assert.False(t, score.OK)
}
