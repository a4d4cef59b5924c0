// queue_test.go — unit-тесты клиента очереди.
package queue

import (
	"testing"

	"github.com/bigkaa/godatastore/ingest-module/internal/config"
)

func TestValidationTaskID(t *testing.T) {
	got := ValidationTaskID("ds-1", "job-1")
	want := "validate-ds-1-job-1"
	if got != want {
		t.Errorf("ValidationTaskID = %q, хотели %q", got, want)
	}
}

// TestReadinessChecker_RedisDown — недоступный Redis обязан давать статус fail,
// иначе readiness probe не снимет трафик с нерабочего инстанса.
func TestReadinessChecker_RedisDown(t *testing.T) {
	checker := NewReadinessChecker(&config.Config{RedisAddr: "127.0.0.1:1"})
	defer checker.Close()

	status, msg := checker.CheckReady()
	if status != "fail" {
		t.Errorf("CheckReady() status = %q, хотели fail (сообщение: %s)", status, msg)
	}
}
