// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/mock"
)

func TestWorkers_StartAndWaitEveryWorkerInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := appstate.New()
	log := logger.Nop()

	w1 := mock.NewMockWorker(ctrl)
	w2 := mock.NewMockWorker(ctrl)

	gomock.InOrder(
		w1.EXPECT().Start(state, log),
		w2.EXPECT().Start(state, log),
		w1.EXPECT().Wait(),
		w2.EXPECT().Wait(),
	)

	ws := &Workers{}
	ws.Add(w1)
	ws.Add(w2)
	ws.Start(state, log)
	ws.Wait()
}

func TestWorkers_AddIgnoresNil(t *testing.T) {
	ws := &Workers{}
	ws.Add(nil)
	assert.Equal(t, 0, ws.Len())
}

func TestWorkers_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not panic on empty workers list
	ws.Start(appstate.New(), logger.Nop())
	ws.Wait()
}
