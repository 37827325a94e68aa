package drvbackup

import (
	"context"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inventorydb"
)

// uploadInventory stores records in the configured database. It does nothing
// when no database is configured.
func (d *Drvbackup) uploadInventory(ctx context.Context, operation, host string, records []driver.Record, folders map[string]string) error {
	if !d.Config.Database.Enabled() {
		return nil
	}

	store, err := inventorydb.Open(d.Config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err = store.EnsureTable(ctx); err != nil {
		return err
	}

	batch := inventorydb.NewBatch(operation, host, records)
	batch.Folders = folders
	if err = store.Upload(ctx, batch); err != nil {
		return err
	}

	d.printf("Uploaded %d drivers to %s (run %s)\n", len(records), store.Table(), batch.RunID)
	return nil
}
