package registry

import (
	"context"

	"lockbox/internal/domain"
)

// PruneReport describes what one reconciliation sweep cleaned up.
type PruneReport struct {
	// OrphanedRegistryEntries are registry ids that had no valid key
	// material; their partial storage was wiped and the delete callback ran.
	OrphanedRegistryEntries []domain.InstanceID
	// ClearedVaultSessions are ids that had vault entries but no registry
	// counterpart, e.g. sessions surviving an app reinstall.
	ClearedVaultSessions []domain.InstanceID
}

// DeleteEntryFunc removes one instance from the external registry.
type DeleteEntryFunc func(ctx context.Context, id domain.InstanceID) error

// ValidateAndPrune reconciles the external instance registry against key
// storage. Vault entries with no registry counterpart are cleared; registry
// ids missing their salt/KCV pair are wiped and handed to deleteEntry.
//
// The sweep is best-effort hygiene: every failure inside it is logged and
// collapses to "no cleanup performed", and a missing durable store makes it
// a no-op. Nothing here may ever disturb a healthy unlock path.
func (r *Registry) ValidateAndPrune(ctx context.Context, registryIDs []domain.InstanceID, deleteEntry DeleteEntryFunc) PruneReport {
	report, err := r.prune(ctx, registryIDs, deleteEntry)
	if err != nil {
		r.log.Warn().Err(err).Msg("orphan sweep failed, no cleanup performed")
		return PruneReport{}
	}
	return report
}

func (r *Registry) prune(ctx context.Context, registryIDs []domain.InstanceID, deleteEntry DeleteEntryFunc) (PruneReport, error) {
	var report PruneReport
	if !r.provider.Available() {
		return report, nil
	}

	known := make(map[domain.InstanceID]bool, len(registryIDs))
	for _, id := range registryIDs {
		known[id] = true
	}

	// Vault entries are invisible to the registry; anything tracked there
	// without a registry counterpart is a leftover session.
	if r.provider.Platform() == domain.PlatformVault {
		tracked, err := r.provider.TrackedVaultInstances(ctx)
		if err != nil {
			return PruneReport{}, err
		}
		for _, id := range tracked {
			if known[id] {
				continue
			}
			if err := r.provider.ClearVaultSession(ctx, id); err != nil {
				return PruneReport{}, err
			}
			report.ClearedVaultSessions = append(report.ClearedVaultSessions, id)
		}
	}

	// A registry entry without its salt/KCV pair can never unlock again;
	// wipe whatever partial state it left and drop it from the registry.
	for _, id := range registryIDs {
		adapter := r.provider.Adapter(id)
		salt, err := adapter.Salt(ctx)
		if err != nil {
			return PruneReport{}, err
		}
		kcv, err := adapter.KeyCheckValue(ctx)
		if err != nil {
			return PruneReport{}, err
		}
		if salt != nil && kcv != "" {
			continue
		}
		if err := adapter.Clear(ctx); err != nil {
			return PruneReport{}, err
		}
		if err := deleteEntry(ctx, id); err != nil {
			return PruneReport{}, err
		}
		report.OrphanedRegistryEntries = append(report.OrphanedRegistryEntries, id)
	}
	return report, nil
}
