package worker

import (
	"github.com/spec-kit/ticket-booking/internal/service"
)

// StartAuditWorker registers audit handlers on the dispatcher.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
