package infrastructure

import (
	"errors"
	"sync/atomic"
	"testing"
)

// ========================================
// Tests: WorkerPool
// ========================================

// TestWorkerPool_RunsAllTasks vérifie l'exécution complète avant Wait
func TestWorkerPool_RunsAllTasks(t *testing.T) {
	wp := NewWorkerPool(4)
	wp.Start()

	var done int64
	for i := 0; i < 100; i++ {
		if err := wp.Submit(func() error {
			atomic.AddInt64(&done, 1)
			return nil
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	wp.Wait()

	if done != 100 {
		t.Errorf("done = %d, want 100", done)
	}
}

// TestWorkerPool_SubmitAfterStop vérifie le refus après arrêt
func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Start()
	wp.Stop()

	err := wp.Submit(func() error { return nil })
	if !errors.Is(err, ErrPoolStopped) {
		t.Errorf("err = %v, want ErrPoolStopped", err)
	}
}

// TestWorkerPool_CollectsErrors vérifie la remontée des erreurs de tâches
func TestWorkerPool_CollectsErrors(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Start()

	boom := errors.New("boom")
	_ = wp.Submit(func() error { return boom })
	_ = wp.Submit(func() error { return nil })

	wp.Wait()

	select {
	case err := <-wp.Errors():
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	default:
		t.Error("expected one error on the channel")
	}
}

// ========================================
// Benchmarks: Worker Pool
// ========================================

// BenchmarkWorkerPool_4Workers_FastTasks teste avec 4 workers (défaut du projet)
func BenchmarkWorkerPool_4Workers_FastTasks(b *testing.B) {
	wp := NewWorkerPool(4)
	wp.Start()
	defer wp.Stop()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = wp.Submit(func() error {
			_ = 1 + 1
			return nil
		})
	}
}
