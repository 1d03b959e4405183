package lsp

import (
	"encoding/json"
	"os"

	"codemux/lspmux/collections"

	"github.com/cockroachdb/errors"
)

// ServerConfig describes one configured language server peer. Immutable
// after load.
type ServerConfig struct {
	Name                  string            `json:"-"`
	Command               []string          `json:"command"`
	FilePatterns          []string          `json:"filePatterns"`
	InitializationOptions map[string]any    `json:"initializationOptions,omitempty"`
	RootUri               string            `json:"rootUri,omitempty"`
	Env                   map[string]string `json:"env,omitempty"`
}

// BridgeConfig is the full peer table. Servers keeps the declaration order
// of the config file; selection ties break on that order.
type BridgeConfig struct {
	Servers []ServerConfig
}

// ServerNames returns the configured peer names in declaration order.
func (c *BridgeConfig) ServerNames() []string {
	return collections.TransformSlice(c.Servers, func(s ServerConfig) string {
		return s.Name
	})
}

// LoadConfig reads a JSON config file mapping peer name to server config.
// encoding/json maps do not preserve key order, so the object is walked
// token by token instead.
func LoadConfig(path string) (*BridgeConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer file.Close()

	dec := json.NewDecoder(file)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("config root must be a JSON object mapping server name to config")
	}

	config := &BridgeConfig{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}

		name, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("config keys must be server names")
		}

		var server ServerConfig
		if err := dec.Decode(&server); err != nil {
			return nil, errors.Wrapf(err, "invalid config for server %q", name)
		}
		server.Name = name

		if err := validateServerConfig(server); err != nil {
			return nil, err
		}

		config.Servers = append(config.Servers, server)
	}

	return config, nil
}

func validateServerConfig(server ServerConfig) error {
	if len(server.Command) == 0 {
		return errors.Newf("server %q: command is required", server.Name)
	}
	if len(server.FilePatterns) == 0 {
		return errors.Newf("server %q: filePatterns is required", server.Name)
	}
	return nil
}
