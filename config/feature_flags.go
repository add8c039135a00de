package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles for ClassQuest Hub.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Roster Features ===
	FeatureRosterHonorifics = "roster.honorifics" // Assign random titles on first view

	// === Repair Features ===
	FeatureRepairExpNormalization = "repair.exp_normalization" // Legacy exp rescaling pass
	FeatureRepairStatsBackfill    = "repair.stats_backfill"    // Reinitialize missing stats blocks

	// === Shop Features ===
	FeatureShopPurchases = "shop.purchases" // Purchase recording and redemption
	FeatureShopSeedItems = "shop.seed_items" // Seed starter coupons for new classes

	// === Avatar Features ===
	FeatureAvatarRenames = "avatar.renames" // Display-name overrides
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureRosterHonorifics] = &Feature{
		Name:        FeatureRosterHonorifics,
		Description: "Assign random honorifics on first list view",
		Enabled:     true,
	}

	ff.features[FeatureRepairExpNormalization] = &Feature{
		Name:        FeatureRepairExpNormalization,
		Description: "Rescale legacy ten-fold exp values",
		Enabled:     true,
	}

	ff.features[FeatureRepairStatsBackfill] = &Feature{
		Name:        FeatureRepairStatsBackfill,
		Description: "Reinitialize missing stats blocks during repair",
		Enabled:     true,
	}

	ff.features[FeatureShopPurchases] = &Feature{
		Name:        FeatureShopPurchases,
		Description: "Record and redeem point shop purchases",
		Enabled:     true,
	}

	ff.features[FeatureShopSeedItems] = &Feature{
		Name:        FeatureShopSeedItems,
		Description: "Seed starter coupons for classes without a shop",
		Enabled:     false,
	}

	ff.features[FeatureAvatarRenames] = &Feature{
		Name:        FeatureAvatarRenames,
		Description: "Allow display-name overrides for catalog items",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_SHOP_SEED_ITEMS=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "repair.exp_normalization" -> "FEATURE_REPAIR_EXP_NORMALIZATION"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}
	return feature.Enabled
}

// EnableFeature enables a feature.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.set(featureName, true)
}

// DisableFeature disables a feature.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.set(featureName, false)
}

func (ff *FeatureFlags) set(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

// ErrFeatureNotFound is returned for unknown feature names.
var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
