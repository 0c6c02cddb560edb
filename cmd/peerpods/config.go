package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/loader"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change settings",
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

var configGetCmd = &cobra.Command{
	Use:   "get <section.key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, key, err := splitKey(args[0])
		if err != nil {
			return err
		}
		path, err := resolveSettingsPath()
		if err != nil {
			return err
		}
		settings, err := loader.LoadOrDefault(path, version)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		v, ok := settings.Lookup(section, key)
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <section.key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and write the settings file.

The value is parsed as YAML, so lists and booleans work:

  peerpods config set peerpods.environmentFile ~/azure.env
  peerpods config set machine.dnsServers '[1.1.1.1, 8.8.8.8]'
  peerpods config set machine.rootful false

A running watch picks the change up.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSettingsPath()
		if err != nil {
			return err
		}
		settings, err := loader.LoadOrDefault(path, version)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		updated, err := setValue(settings, args[0], args[1])
		if err != nil {
			return err
		}
		if err := loader.SaveToFile(updated, path); err != nil {
			return err
		}
		fmt.Println(ui.SuccessMsg("Set %s", args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSettingsPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func splitKey(dotted string) (section, key string, err error) {
	section, key, ok := strings.Cut(dotted, ".")
	if !ok || section == "" || key == "" {
		return "", "", fmt.Errorf("setting must look like section.key, got %q", dotted)
	}
	return section, key, nil
}

// setValue returns a copy of s with section.key set to the YAML value raw.
// The result is normalized and validated like a freshly loaded file.
func setValue(s *config.Settings, dotted, raw string) (*config.Settings, error) {
	section, key, err := splitKey(dotted)
	if err != nil {
		return nil, err
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", dotted, err)
	}

	sections := make(map[string]map[string]any, len(s.Sections)+1)
	for name, sec := range s.Sections {
		cp := make(map[string]any, len(sec))
		for k, v := range sec {
			cp[k] = v
		}
		sections[name] = cp
	}
	if sections[section] == nil {
		sections[section] = map[string]any{}
	}
	sections[section][key] = value

	data, err := yaml.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return loader.LoadFromYAML(data, version)
}
