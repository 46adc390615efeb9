// Package services implements the driving port interfaces.
// Services contain the résumé pipeline (index, router, extractor,
// orchestrator) and the use cases built on it: parsing, meeting
// scheduling, record reads, inbox ingestion and settings.
//
// Services depend only on ports; adapters are injected at the
// composition root.
package services
