package kvstore

// SettingsOverride holds settings changed by a system admin through the
// plugin API. Zero fields leave the plugin setting in place.
type SettingsOverride struct {
	Prefix                     string `json:"prefix,omitempty"`
	NormalUserCharLimit        int    `json:"normalUserCharLimit,omitempty"`
	ManageMessageUserCharLimit int    `json:"manageMessageUserCharLimit,omitempty"`
}

// Merge sets the fields of o that are set in other.
func (o *SettingsOverride) Merge(other SettingsOverride) {
	if other.Prefix != "" {
		o.Prefix = other.Prefix
	}
	if other.NormalUserCharLimit != 0 {
		o.NormalUserCharLimit = other.NormalUserCharLimit
	}
	if other.ManageMessageUserCharLimit != 0 {
		o.ManageMessageUserCharLimit = other.ManageMessageUserCharLimit
	}
}

type KVStore interface {
	// GetSettingsOverride returns the stored override, or nil if none was saved.
	GetSettingsOverride() (*SettingsOverride, error)
	SaveSettingsOverride(override *SettingsOverride) error
	DeleteSettingsOverride() error
}
