package model

// Channel is one monitored YouTube channel, loaded from the channels file at
// startup and immutable during a run.
type Channel struct {
	// Name is optional; when empty it is resolved from the channel info of
	// the credentials' own account.
	Name string `yaml:"name"`

	// TokenPath is where the serialized OAuth token for this channel lives.
	TokenPath string `yaml:"token_path"`

	// ClientSecretPath points at the OAuth client secret JSON.
	ClientSecretPath string `yaml:"client_secret_path"`

	// UploadsPlaylistID is optional; when empty it is resolved via the
	// channels.list endpoint.
	UploadsPlaylistID string `yaml:"uploads_playlist_id"`
}

// ChannelInfo is the remote identity of a channel, resolved from the
// credentials themselves via channels.list(mine=true).
type ChannelInfo struct {
	ID                string
	Title             string
	UploadsPlaylistID string
}
