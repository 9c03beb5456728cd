package rules

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/utils"
)

func TestBoundedString(t *testing.T) {
	assert.True(t, BoundedString("x", 5))
	assert.True(t, BoundedString(strings.Repeat("x", 5), 5))
	assert.False(t, BoundedString(strings.Repeat("x", 6), 5))
	assert.False(t, BoundedString("", 5), "required strings may not be empty")
}

func TestOptionalBoundedStringAllowsEmpty(t *testing.T) {
	// The required variant rejects "", the optional one accepts it. The
	// asymmetry is intentional and must not regress.
	assert.False(t, BoundedString("", 10))
	assert.True(t, OptionalBoundedString(utils.Ptr(""), 10))
	assert.True(t, OptionalBoundedString(nil, 10))
	assert.False(t, OptionalBoundedString(utils.Ptr(strings.Repeat("x", 11)), 10))
}

func TestOptionalAbsentAndNullAreEquivalent(t *testing.T) {
	// An absent field and an explicit null must decode to the same thing
	// and be accepted the same way by every optional validator.
	type payload struct {
		Notes  *string  `json:"notes,omitempty"`
		Rating *float64 `json:"myRating,omitempty"`
	}

	var absent, null payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"notes":null,"myRating":null}`), &null))

	assert.Equal(t, absent, null)
	assert.True(t, OptionalBoundedString(absent.Notes, 0))
	assert.True(t, OptionalBoundedString(null.Notes, 0))
	assert.True(t, OptionalInRange(absent.Rating, 0, 10))
	assert.True(t, OptionalInRange(null.Rating, 0, 10))
}

func TestOptionalInRange(t *testing.T) {
	assert.True(t, OptionalInRange(utils.Ptr(0.5), 0, 10), "fractional ratings are valid")
	assert.True(t, OptionalInRange(utils.Ptr(0.0), 0, 10))
	assert.True(t, OptionalInRange(utils.Ptr(10.0), 0, 10))
	assert.False(t, OptionalInRange(utils.Ptr(10.5), 0, 10))
	assert.False(t, OptionalInRange(utils.Ptr(-0.1), 0, 10))
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(0))
	assert.True(t, NonNegative(3.5))
	assert.False(t, NonNegative(-1))
	assert.True(t, OptionalNonNegative(nil))
	assert.False(t, OptionalNonNegative(utils.Ptr(-0.01)))
}

func TestBoundedList(t *testing.T) {
	assert.True(t, BoundedList[string](nil, 3))
	assert.True(t, BoundedList([]string{"a", "b", "c"}, 3))
	assert.False(t, BoundedList([]string{"a", "b", "c", "d"}, 3))
}

func TestEnumMember(t *testing.T) {
	assert.True(t, EnumMember(document.StatusOwned,
		document.StatusOwned, document.StatusWishlist))
	assert.False(t, EnumMember(document.ItemStatus("borrowed"),
		document.StatusOwned, document.StatusWishlist))
	assert.True(t, OptionalEnumMember[document.BoxSizeClass](nil, document.BoxSmall))
	assert.False(t, OptionalEnumMember(utils.Ptr(document.BoxSizeClass("XS")), document.BoxSmall, document.BoxTall))
}

func TestTimestampLike(t *testing.T) {
	assert.True(t, TimestampLike(nil))
	assert.True(t, TimestampLike(utils.Ptr(document.ClientTime("2026-08-30T12:00:00Z"))))
	assert.True(t, TimestampLike(utils.Ptr(document.ServerAssigned())))

	var bad document.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`42`), &bad))
	assert.False(t, TimestampLike(&bad))
}
