package digest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axbits/lsbsteg/digest"
)

func TestSizes(t *testing.T) {
	cases := []struct {
		tag  digest.Tag
		size int
	}{
		{digest.Blake3, 32},
		{digest.SHA256, 32},
		{digest.SHA512, 64},
		{digest.SHA1, 20},
	}
	for _, c := range cases {
		size, ok := c.tag.Size()
		require.True(t, ok)
		assert.Equal(t, c.size, size)
	}
}

func TestParseTagUnknown(t *testing.T) {
	_, ok := digest.ParseTag(250)
	assert.False(t, ok)
}

func TestSumMatchesOutputSize(t *testing.T) {
	for _, tag := range []digest.Tag{digest.Blake3, digest.SHA256, digest.SHA512, digest.SHA1} {
		sum := digest.Sum(tag, []byte("hello world"))
		size, _ := tag.Size()
		assert.Len(t, sum, size)
	}
}

func TestSumDeterministic(t *testing.T) {
	a := digest.Sum(digest.Blake3, []byte("payload"))
	b := digest.Sum(digest.Blake3, []byte("payload"))
	assert.Equal(t, a, b)
}
