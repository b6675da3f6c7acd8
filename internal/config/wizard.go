package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to OmniDive! Let's configure the explorer.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select AI provider",
		Items: []string{"google", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	textModel, err := (&promptui.Prompt{Label: "Text model", Default: preset.TextModel}).Run()
	if err != nil {
		return nil, fmt.Errorf("text model: %w", err)
	}

	imageModel, err := (&promptui.Prompt{Label: "Image model", Default: preset.ImageModel}).Run()
	if err != nil {
		return nil, fmt.Errorf("image model: %w", err)
	}

	policyPrompt := promptui.Select{
		Label: "While a search is loading",
		Items: []string{
			"reject: ignore new submits until the current search finishes",
			"latest: start the new search, discard the older result",
		},
	}
	policyIdx, _, err := policyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("overlap policy: %w", err)
	}
	policy := []OverlapPolicy{PolicyRejectWhileLoading, PolicyLatestWins}[policyIdx]

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.TextModel = textModel
	cfg.ImageModel = imageModel
	cfg.OverlapPolicy = policy
	cfg.Server.Port = port

	if envVar := APIKeyEnvVar(provider); os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment (or a .env file) before running omnidive serve.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
