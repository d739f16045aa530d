package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jamesainslie/foldersort/pkg/foldersort/config"
	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/jamesainslie/foldersort/pkg/foldersort/output"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
	"github.com/spf13/viper"
)

// Output flags.
var (
	outputFormat string
	templateStr  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "output", "o", "pretty",
		"output format: "+strings.Join(output.Available(), ", "))
	flags.StringVar(&templateStr, "template", "", "Go template for -o template")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("template", flags.Lookup("template"))
}

// buildOptions assembles session options from the preset named by --policy,
// explicitly set flags and the merged configuration, in that order of
// precedence for the policy fields: changed flags first, then the preset,
// then config. changed reports whether a flag was set on the command line.
func buildOptions(changed func(name string) bool) (session.Options, *config.Config, error) {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return session.Options{}, nil, err
	}

	policy := organizer.Policy{
		BucketByDate:     cfg.Organize.ByDate,
		ExcludeSymlinks:  cfg.Organize.ExcludeSymlinks,
		ExcludedSuffixes: cfg.Organize.ExcludedSuffixes,
		AuditEmptyDirs:   cfg.Cleanup.Enabled,
	}

	if name := viper.GetString("policy"); name != "" {
		preset, err := organizer.ParsePolicy(name)
		if err != nil {
			return session.Options{}, nil, err
		}
		if !changed("by-date") {
			policy.BucketByDate = preset.BucketByDate
		}
		if !changed("include-symlinks") {
			policy.ExcludeSymlinks = preset.ExcludeSymlinks
		}
		if !changed("exclude-suffix") {
			policy.ExcludedSuffixes = preset.ExcludedSuffixes
		}
		if !changed("cleanup") {
			policy.AuditEmptyDirs = preset.AuditEmptyDirs
		}
	}
	if changed("include-symlinks") {
		policy.ExcludeSymlinks = !viper.GetBool("include_symlinks")
	}

	source, err := organizer.ParseDateSource(cfg.Organize.DateSource)
	if err != nil {
		return session.Options{}, nil, err
	}

	opts := session.Options{
		Organizer: organizer.Options{
			Policy:         policy,
			Exclude:        cfg.Organize.Exclude,
			NoExtensionDir: cfg.Organize.NoExtensionDir,
			DateSource:     source,
			DryRun:         viper.GetBool("dry_run"),
		},
		UseTrash: cfg.Cleanup.UseTrash,
	}
	return opts, cfg, nil
}

// resolveTarget picks the folder named on the command line, falling back to
// the configured default_path. An empty result means no folder was selected.
func resolveTarget(args []string, cfg *config.Config) (string, error) {
	target := ""
	if len(args) > 0 {
		target = args[0]
	} else if cfg != nil {
		target = cfg.DefaultPath
	}
	return config.ExpandPath(target)
}

// selectFormatter returns the formatter for --output, honouring --template.
func selectFormatter() (output.Formatter, error) {
	name := viper.GetString("output")
	if name == "" {
		name = "pretty"
	}
	if tmpl := viper.GetString("template"); name == "template" && tmpl != "" {
		return output.NewTemplateFormatter(tmpl), nil
	}
	return output.Get(name)
}

// render formats an outcome with f and returns the text.
func render(f output.Formatter, out *session.Outcome) (string, error) {
	var buf bytes.Buffer
	if err := f.Format(&buf, output.FromOutcome(out)); err != nil {
		return "", fmt.Errorf("formatting output: %w", err)
	}
	return buf.String(), nil
}
