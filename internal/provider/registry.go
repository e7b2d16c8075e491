// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/config"
)

// FromConfig instantiates the provider chain in the configured order.
// Unknown names are skipped with a warning rather than failing the run,
// so a stale config keeps working with the sources it does name.
func FromConfig(cfg *config.Config, logger *log.Logger) []Provider {
	client := NewClient(cfg.HTTP)

	var chain []Provider
	for _, name := range cfg.Providers {
		switch name {
		case "douban":
			chain = append(chain, NewDouban(client))
		case "googlebooks":
			chain = append(chain, NewGoogleBooks(client))
		case "openlibrary":
			chain = append(chain, NewOpenLibrary(client))
		case "localjson":
			chain = append(chain, NewLocalJSON(cfg.OfflineCatalogPath()))
		default:
			if logger != nil {
				logger.Warn("unknown provider in config, skipping", "provider", name)
			}
		}
	}
	return chain
}
