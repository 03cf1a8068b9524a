package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/adapters/driven/ai"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	coreservices "github.com/custodia-labs/webrecall/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the embedding provider, LLM provider, chunking, storage
and privacy settings stored in config.toml.

API keys are read from the environment or a .env file:
GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change one setting and save it to config.toml.

Keys:
` + settingKeysHelp(),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured providers are reachable",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingKind selects how a value given on the command line is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindList
	kindEmbeddingProvider
	kindLLMProvider
	kindBackend
)

var settingKeys = map[string]settingKind{
	"embedding.provider":            kindEmbeddingProvider,
	"embedding.model":               kindString,
	"embedding.base_url":            kindString,
	"embedding.dimensions":          kindInt,
	"embedding.timeout_seconds":     kindInt,
	"embedding.max_retries":         kindInt,
	"embedding.requests_per_second": kindFloat,
	"llm.provider":                  kindLLMProvider,
	"llm.model":                     kindString,
	"llm.base_url":                  kindString,
	"chunking.size":                 kindInt,
	"chunking.overlap_words":        kindInt,
	"storage.backend":               kindBackend,
	"storage.dir":                   kindString,
	"server.addr":                   kindString,
	"server.inbox_dir":              kindString,
	"privacy.blocked_patterns":      kindList,
}

func settingKeysHelp() string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "  " + strings.Join(keys, "\n  ")
}

// parseSetting converts raw into the value stored for key.
func parseSetting(key, raw string) (any, error) {
	kind, ok := settingKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number: %w", key, domain.ErrInvalidInput)
		}
		return f, nil
	case kindList:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	case kindEmbeddingProvider:
		if !domain.AIProvider(raw).SupportsEmbedding() {
			return nil, fmt.Errorf("%s must be ollama, openai or gemini: %w", key, domain.ErrInvalidInput)
		}
		return raw, nil
	case kindLLMProvider:
		p := domain.AIProvider(raw)
		if !p.IsValid() && p != domain.AIProviderNone {
			return nil, fmt.Errorf("%s must be gemini, ollama, openai, anthropic or none: %w", key, domain.ErrInvalidInput)
		}
		return raw, nil
	case kindBackend:
		if !domain.StorageBackend(raw).IsValid() {
			return nil, fmt.Errorf("%s must be file or sqlite: %w", key, domain.ErrInvalidInput)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	store, settings, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", store.Path())
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	cmd.Printf("  Timeout: %s, retries: %d\n", settings.Embedding.Timeout, settings.Embedding.MaxRetries)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	if settings.LLM.Provider != domain.AIProviderNone {
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
		if settings.LLM.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
		}
		printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d characters\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d words\n", settings.Chunking.OverlapWords)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Storage.Dir)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	if settings.Server.InboxDir != "" {
		cmd.Printf("  Inbox: %s\n", settings.Server.InboxDir)
	}
	cmd.Println()

	cmd.Println("[Privacy]")
	if len(settings.Privacy.BlockedPatterns) == 0 {
		cmd.Println("  Extra blocked patterns: (none)")
	} else {
		cmd.Printf("  Extra blocked patterns: %s\n", strings.Join(settings.Privacy.BlockedPatterns, ", "))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value, err := parseSetting(key, raw)
	if err != nil {
		return err
	}

	store, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	cmd.Printf("Set %s = %v\n", key, value)
	if _, err := coreservices.LoadSettings(store); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var failed []string

	cmd.Printf("Embedding (%s/%s): ", settings.Embedding.Provider, settings.Embedding.Model)
	if err := ai.ValidateEmbeddingConfig(ctx, &settings.Embedding); err != nil {
		cmd.Printf("FAILED\n  %v\n", err)
		failed = append(failed, "embedding")
	} else {
		cmd.Println("ok")
	}

	if settings.LLM.Provider == domain.AIProviderNone {
		cmd.Println("LLM: disabled")
	} else {
		cmd.Printf("LLM (%s/%s): ", settings.LLM.Provider, settings.LLM.Model)
		if err := ai.ValidateLLMConfig(ctx, &settings.LLM); err != nil {
			cmd.Printf("FAILED\n  %v\n", err)
			failed = append(failed, "llm")
		} else {
			cmd.Println("ok")
		}
	}

	if len(failed) > 0 {
		return errors.New("unreachable: " + strings.Join(failed, ", "))
	}
	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key == "" {
		cmd.Printf("  API Key: (not set, export %s)\n", provider.APIKeyEnv())
		return
	}
	cmd.Printf("  API Key: %s\n", maskAPIKey(key))
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
