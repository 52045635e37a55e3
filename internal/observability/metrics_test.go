package observability

import (
	"testing"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordCommand("OC", "Get", OutcomeAccepted, 12*time.Millisecond)
	RecordCommand("DD", "Put", OutcomeRejected, 8*time.Millisecond)
	RecordTransportTimeout()
	RecordCondition("sky_temperature", -28.6)
	RecordSafe(true)
	RecordSafe(false)
}
