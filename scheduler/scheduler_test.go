// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryRunsRepeatedly(t *testing.T) {
	s := New()
	defer s.Stop()

	var n int32
	s.Every(5*time.Millisecond, func() { atomic.AddInt32(&n, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&n), int32(3))
}

func TestStopHaltsEveryLoop(t *testing.T) {
	s := New()
	var n int32
	s.Every(5*time.Millisecond, func() { atomic.AddInt32(&n, 1) })

	time.Sleep(20 * time.Millisecond)
	s.Stop()
	afterStop := atomic.LoadInt32(&n)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, afterStop, atomic.LoadInt32(&n), "no further ticks after Stop")
}

func TestAfterFiresOnce(t *testing.T) {
	s := New()
	defer s.Stop()

	var n int32
	s.After(5*time.Millisecond, func() { atomic.AddInt32(&n, 1) })

	time.Sleep(40 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&n))
}

func TestAfterCancelPreventsCallback(t *testing.T) {
	s := New()
	defer s.Stop()

	var n int32
	cancel := s.After(20*time.Millisecond, func() { atomic.AddInt32(&n, 1) })
	cancel()

	time.Sleep(40 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&n))
}
