package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete zizkeys.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// KeyFile is the private key path used on every node. The public key
	// lives next to it with a .pub suffix. An empty value is passed through
	// to the remote tools unmodified; zizkeys does not reject it.
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// LoginHost is the shared host that receives the public keys.
	// Every node's install step targets this one address.
	LoginHost string `yaml:"login_host" mapstructure:"login_host"`

	Srun   SrunConfig   `yaml:"srun" mapstructure:"srun"`
	Keygen KeygenConfig `yaml:"keygen" mapstructure:"keygen"`
}

// SrunConfig controls how jobs are submitted to the cluster.
type SrunConfig struct {
	// Binary is the srun executable name or path.
	Binary string `yaml:"binary" mapstructure:"binary"`

	// SinfoBinary is the sinfo executable name or path.
	SinfoBinary string `yaml:"sinfo_binary" mapstructure:"sinfo_binary"`

	// PartitionFormat maps a node identifier to its partition name.
	// Must contain exactly one %s verb.
	PartitionFormat string `yaml:"partition_format" mapstructure:"partition_format"`
}

// KeygenConfig controls the key pair generated on each node.
type KeygenConfig struct {
	// Type is the ssh-keygen key type.
	Type string `yaml:"type" mapstructure:"type"`

	// Bits is the key length, passed as -b for RSA keys.
	Bits int `yaml:"bits" mapstructure:"bits"`
}

// DefaultLoginHost is the shared login host for the ziz cluster.
const DefaultLoginHost = "ziz.stats.ox.ac.uk"

// DefaultPartitionFormat maps node N to its debug partition.
const DefaultPartitionFormat = "ziz-gpu0%s-debug"

// DefaultConfig returns a Config with the cluster defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		KeyFile:   "",
		LoginHost: DefaultLoginHost,
		Srun: SrunConfig{
			Binary:          "srun",
			SinfoBinary:     "sinfo",
			PartitionFormat: DefaultPartitionFormat,
		},
		Keygen: KeygenConfig{
			Type: "rsa",
			Bits: 2048,
		},
	}
}
