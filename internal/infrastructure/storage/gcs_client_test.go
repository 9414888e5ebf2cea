package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name, err := ObjectName("/works/w1/", "image/PNG", "abc")
	require.NoError(t, err)
	assert.Equal(t, "works/w1/abc.png", name)

	name, err = ObjectName("", "image/jpeg", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc.jpg", name)

	_, err = ObjectName("works", "application/pdf", "abc")
	assert.Error(t, err)
}

func TestObjectFromURLRoundTrip(t *testing.T) {
	url := PublicURL("loklagbe", "works/w1/abc.png")
	assert.Equal(t, "https://storage.googleapis.com/loklagbe/works/w1/abc.png", url)

	name, err := ObjectFromURL("loklagbe", url)
	require.NoError(t, err)
	assert.Equal(t, "works/w1/abc.png", name)

	_, err = ObjectFromURL("other-bucket", url)
	assert.Error(t, err)
	_, err = ObjectFromURL("loklagbe", "https://example.com/x.png")
	assert.Error(t, err)
}
