// internal/services/observe.go
package services

import (
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/metrics"
)

// observe logs and counts a failed store call and returns err unchanged.
// Local validation failures are not store failures and pass through silently.
func observe(operation string, err error) error {
	if err == nil {
		return nil
	}
	kind := apperr.KindOf(err)
	metrics.RecordStoreError(operation, string(kind))

	entry := logrus.WithFields(logrus.Fields{
		"operation": operation,
		"kind":      kind,
	}).WithError(err)
	switch kind {
	case apperr.Validation, apperr.NotFound:
		entry.Info("Catalog store rejected request")
	default:
		entry.Error("Catalog store call failed")
	}
	return err
}
