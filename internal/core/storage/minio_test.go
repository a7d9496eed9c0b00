package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarKey(t *testing.T) {
	key, err := AvatarKey(42, "me.PNG", "image/png")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^profile_pics/42/[0-9a-f-]{36}\.png$`), key)

	key, err = AvatarKey(7, "photo.jpeg", "image/jpeg")
	require.NoError(t, err)
	assert.Regexp(t, `\.jpeg$`, key)

	_, err = AvatarKey(7, "evil.svg", "image/svg+xml")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMinioStore_URL(t *testing.T) {
	s := &MinioStore{bucket: "b", publicBase: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/b/profile_pics/1/x.png", s.URL("profile_pics/1/x.png"))

	s.publicBase = ""
	assert.Equal(t, "profile_pics/1/x.png", s.URL("profile_pics/1/x.png"))
}
