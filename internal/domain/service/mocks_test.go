package service

import (
	"testing"
	"time"

	"github.com/diegoclair/pr-police/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"
)

type allMocks struct {
	mockSource   *mocks.MockPullRequestSource
	mockNotifier *mocks.MockNotifier
	mockClock    *mocks.MockClock
	log          *logrus.Logger
	hook         *test.Hook
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	m = allMocks{
		mockSource:   mocks.NewMockPullRequestSource(ctrl),
		mockNotifier: mocks.NewMockNotifier(ctrl),
		mockClock:    mocks.NewMockClock(ctrl),
		log:          log,
		hook:         hook,
	}

	return
}

// date builds a UTC time; hour and minute matter to the gate
func date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
