package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

const (
	// Overdue sweep shortly after midnight, commission run on the 2nd of
	// each month for the month that just closed.
	overdueSchedule    = "30 0 * * *"
	commissionSchedule = "0 2 2 * *"
)

// Scheduler drives the periodic jobs with cron. Start returns immediately;
// Stop waits for any running job to finish.
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
}

func NewScheduler(j *Jobs) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, jobs: j}

	if _, err := c.AddFunc(overdueSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := j.SweepOverdue(ctx, time.Now()); err != nil {
			logrus.WithError(err).Error("overdue sweep failed")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(commissionSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := j.RunCommissions(ctx, time.Now().AddDate(0, -1, 0)); err != nil {
			logrus.WithError(err).Error("commission run failed")
		}
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
