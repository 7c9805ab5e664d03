package service

import (
	"github.com/noah-isme/tessera-api/internal/scheduler"
	"github.com/noah-isme/tessera-api/pkg/config"
)

// NewEngine builds the selection engine from scheduler configuration.
func NewEngine(cfg config.SchedulerConfig) (*scheduler.Engine, error) {
	policy, err := scheduler.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		return nil, err
	}
	filter := scheduler.DefaultFilter()
	filter.Policy = policy
	if cfg.MinCredits != 0 || cfg.MaxCredits != 0 {
		filter.MinCredits, filter.MaxCredits = cfg.MinCredits, cfg.MaxCredits
	}
	return scheduler.NewEngine(scheduler.Options{
		MinSize: cfg.MinCombinationSize,
		MaxSize: cfg.MaxCombinationSize,
		Filter:  filter,
		Workers: cfg.Workers,
	})
}
