package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// catalogCandidates are checked, in order, for an existing project catalog.
var catalogCandidates = []string{
	"projects.json",
	"data/projects.json",
	"site/projects.json",
	"*/projects.json",
}

// detectCatalog returns the first existing catalog file in the current
// directory, or the default name.
func detectCatalog() string {
	for _, pattern := range catalogCandidates {
		matches, _ := filepath.Glob(pattern)
		if len(matches) > 0 {
			return matches[0]
		}
	}
	return DefaultConfig().Catalog
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to folio! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.SiteTitle,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.SiteTitle = strings.TrimSpace(title)

	// 2. Catalog.
	catalogPrompt := promptui.Prompt{
		Label:   "Project catalog (JSON file or URL)",
		Default: detectCatalog(),
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("catalog is required")
			}
			return nil
		},
	}
	catalogPath, err := catalogPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	cfg.Catalog = strings.TrimSpace(catalogPath)

	// 3. Source and output directories.
	sourcePrompt := promptui.Prompt{
		Label:   "Template directory",
		Default: cfg.SourceDir,
	}
	if cfg.SourceDir, err = sourcePrompt.Run(); err != nil {
		return nil, fmt.Errorf("source dir: %w", err)
	}
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. URL style.
	urlPrompt := promptui.Select{
		Label: "Project page URLs",
		Items: []string{
			"project.html?p=<slug> (single page)",
			"projects/<slug>/      (one page per project)",
		},
	}
	urlIdx, _, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("url style: %w", err)
	}
	cfg.PrettyURLs = urlIdx == 1

	// 5. Embeds.
	embedPrompt := promptui.Select{
		Label: "Instagram embeds",
		Items: []string{"link remote script", "vendor script into the site", "disabled"},
	}
	embedIdx, _, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embed selection: %w", err)
	}
	cfg.Embeds.Instagram = embedIdx != 2
	cfg.Embeds.Vendor = embedIdx == 1

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra static exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Exclude = append(append([]string(nil), DefaultExcludes...), extra...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
