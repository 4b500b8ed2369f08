package main

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/store/kvstore"
	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

const (
	defaultPrefix                     = "!"
	defaultNormalUserCharLimit        = 1000
	defaultManageMessageUserCharLimit = 4000
)

// configuration captures the plugin's external configuration as exposed in the Mattermost server
// configuration, as well as values computed from the configuration. Any public fields will be
// deserialized from the Mattermost server configuration in OnConfigurationChange.
//
// As plugins are inherently concurrent (hooks being called asynchronously), and the plugin
// configuration can change at any time, access to the configuration must be synchronized. The
// strategy used in this plugin is to guard a pointer to the configuration, and clone the entire
// struct whenever it changes.
type configuration struct {
	Prefix                     string `json:"Prefix"`
	NormalUserCharLimit        int    `json:"NormalUserCharLimit"`
	ManageMessageUserCharLimit int    `json:"ManageMessageUserCharLimit"`
}

// Clone shallow copies the configuration. All fields are values.
func (c *configuration) Clone() *configuration {
	var clone = *c
	return &clone
}

// applyDefaults fills settings the admin left empty.
func (c *configuration) applyDefaults() {
	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}
	if c.NormalUserCharLimit == 0 {
		c.NormalUserCharLimit = defaultNormalUserCharLimit
	}
	if c.ManageMessageUserCharLimit == 0 {
		c.ManageMessageUserCharLimit = defaultManageMessageUserCharLimit
	}
}

// applyOverride replaces settings with the non-zero fields of an admin override.
func (c *configuration) applyOverride(o *kvstore.SettingsOverride) {
	if o == nil {
		return
	}
	if o.Prefix != "" {
		c.Prefix = o.Prefix
	}
	if o.NormalUserCharLimit != 0 {
		c.NormalUserCharLimit = o.NormalUserCharLimit
	}
	if o.ManageMessageUserCharLimit != 0 {
		c.ManageMessageUserCharLimit = o.ManageMessageUserCharLimit
	}
}

// validate rejects settings the bot cannot work with.
func (c *configuration) validate() error {
	if c.Prefix == "" {
		return errors.New("prefix must not be empty")
	}
	if c.NormalUserCharLimit < 0 {
		return errors.Errorf("normal user character limit must not be negative, got %d", c.NormalUserCharLimit)
	}
	if c.ManageMessageUserCharLimit < 0 {
		return errors.Errorf("manage message user character limit must not be negative, got %d", c.ManageMessageUserCharLimit)
	}
	return nil
}

func (c *configuration) limits() unpack.Limits {
	return unpack.Limits{
		Normal:         c.NormalUserCharLimit,
		ManageMessages: c.ManageMessageUserCharLimit,
	}
}

// settings returns the dispatcher settings for this configuration.
func (c *configuration) settings() unpack.Settings {
	return unpack.Settings{
		Prefix:       c.Prefix,
		Limits:       c.limits(),
		Mentions:     unpack.MattermostMentions,
		MessageLimit: unpack.DefaultMessageLimit,
	}
}

// getConfiguration retrieves the active configuration under lock, making it safe to use
// concurrently. The active configuration may change underneath the client of this method, but
// the struct returned by this API call is considered immutable.
func (p *Plugin) getConfiguration() *configuration {
	p.configurationLock.RLock()
	defer p.configurationLock.RUnlock()

	if p.configuration == nil {
		config := &configuration{}
		config.applyDefaults()
		return config
	}

	return p.configuration
}

// setConfiguration replaces the active configuration under lock.
//
// Do not call setConfiguration while holding the configurationLock, as sync.Mutex is not
// reentrant. In particular, avoid using the plugin API entirely, as this may in turn trigger a
// hook back into the plugin. If that hook attempts to acquire this lock, a deadlock may occur.
//
// This method panics if setConfiguration is called with the existing configuration. This almost
// certainly means that the configuration was modified without being cloned and may result in
// an unsafe access.
func (p *Plugin) setConfiguration(configuration *configuration) {
	p.configurationLock.Lock()
	defer p.configurationLock.Unlock()

	if configuration != nil && p.configuration == configuration {
		// Ignore assignment if the configuration struct is empty. Go will optimize the
		// allocation for same to point at the same memory address, breaking the check
		// above.
		if reflect.ValueOf(*configuration).NumField() == 0 {
			return
		}

		panic("setConfiguration called with the existing configuration")
	}

	p.configuration = configuration
}

// OnConfigurationChange is invoked when configuration changes may have been made.
func (p *Plugin) OnConfigurationChange() error {
	config, err := p.loadConfiguration()
	if err != nil {
		return err
	}

	p.setConfiguration(config)

	return nil
}

// loadConfiguration reads the plugin settings and merges the admin override
// stored in the KV store on top of them.
func (p *Plugin) loadConfiguration() (*configuration, error) {
	var config = new(configuration)

	// Load the public configuration fields from the Mattermost server configuration.
	if err := p.API.LoadPluginConfiguration(config); err != nil {
		return nil, errors.Wrap(err, "failed to load plugin configuration")
	}

	config.applyDefaults()

	// The KV store is only available once the plugin has been activated.
	if p.kvstore != nil {
		override, err := p.kvstore.GetSettingsOverride()
		if err != nil {
			p.API.LogError("Failed to load settings override from KV store", "error", err.Error())
		} else {
			config.applyOverride(override)
		}
	}

	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if !config.limits().Valid() {
		p.API.LogWarn("Manage message user character limit is lower than the normal user limit",
			"normalUserCharLimit", config.NormalUserCharLimit,
			"manageMessageUserCharLimit", config.ManageMessageUserCharLimit,
		)
	}

	return config, nil
}
