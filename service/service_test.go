/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/log"
)

type testUnit struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	startErr error
	blockCh  chan struct{}
}

func newTestUnit() *testUnit {
	return &testUnit{blockCh: make(chan struct{})}
}

func (u *testUnit) Start(fatalError chan<- error) {
	u.mu.Lock()
	u.started = true
	startErr := u.startErr
	u.mu.Unlock()
	if startErr != nil {
		fatalError <- startErr
		return
	}
	<-u.blockCh
}

func (u *testUnit) Stop(gracefully bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.stopped {
		u.stopped = true
		close(u.blockCh)
	}
	return nil
}

func (u *testUnit) isStopped() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stopped
}

func TestServiceStopBySignal(t *testing.T) {
	unit := newTestUnit()
	svc := New(log.NewDisabledLogger(), unit)

	done := make(chan error, 1)
	go func() {
		done <- svc.Start()
	}()

	time.Sleep(time.Millisecond * 50)
	svc.Signals <- syscall.SIGTERM

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("service did not stop in time")
	}
	require.True(t, unit.isStopped())
}

func TestServiceStopByContext(t *testing.T) {
	unit := newTestUnit()
	svc := New(log.NewDisabledLogger(), unit)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.StartContext(ctx)
	}()

	time.Sleep(time.Millisecond * 50)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("service did not stop in time")
	}
	require.True(t, unit.isStopped())
}

func TestServiceFatalError(t *testing.T) {
	unit := newTestUnit()
	unit.startErr = errors.New("bind: address already in use")
	svc := New(log.NewDisabledLogger(), unit)
	err := svc.Start()
	require.Error(t, err)
	require.Contains(t, err.Error(), "fatal error")
}

func TestPeriodicWorker(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	worker := NewPeriodicWorker(WorkerFunc(func(ctx context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	}), time.Millisecond*10, log.NewDisabledLogger())

	unit := NewWorkerUnit(worker)
	fatalError := make(chan error, 1)
	go unit.Start(fatalError)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs >= 3
	}, time.Second*5, time.Millisecond*5)

	require.NoError(t, unit.Stop(true))
	require.Empty(t, fatalError)
}

func TestPeriodicWorkerStopByError(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	worker := NewPeriodicWorker(WorkerFunc(func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		runs++
		return ErrPeriodicWorkerStop
	}), time.Millisecond, log.NewDisabledLogger())

	require.NoError(t, worker.Run(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, runs)
}
