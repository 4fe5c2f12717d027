package report

const (
	openConfigurationKeySuffixConstant    = ".open"
	publishConfigurationKeySuffixConstant = ".publish"
)

// CommandConfiguration stores the configurable defaults of the generate command.
type CommandConfiguration struct {
	Open    bool `mapstructure:"open"`
	Publish bool `mapstructure:"publish"`
}

// DefaultConfigurationValues returns the configuration defaults keyed under configurationKeyPrefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + openConfigurationKeySuffixConstant:    false,
		configurationKeyPrefix + publishConfigurationKeySuffixConstant: false,
	}
}
