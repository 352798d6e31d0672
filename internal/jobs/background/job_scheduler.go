package background

import (
	"context"
	"log"
	"sync"
	"time"

	"matflow/internal/caching"
	"matflow/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler    gocron.Scheduler
	reorderScan  *jobs.ReorderScanService
	cacheSvc     caching.CacheService
	scanInterval time.Duration
	jobJobs      map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(reorderScan *jobs.ReorderScanService, cacheSvc caching.CacheService,
	scanInterval time.Duration) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		reorderScan:  reorderScan,
		cacheSvc:     cacheSvc,
		scanInterval: scanInterval,
		jobJobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Reorder scan job. Singleton mode: a scan that overruns its interval
	// must not run twice in parallel, replenishment dedupe notwithstanding.
	scanJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.scanInterval),
		gocron.NewTask(js.reorderScan.ScheduledScan, context.Background()),
		gocron.WithName("reorder-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reorder scan job: %v", err)
	} else {
		js.jobJobs["reorder-scan"] = scanJob
	}

	// Cache cleanup job - every hour
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredCache),
		gocron.WithName("cache-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create cache cleanup job: %v", err)
	} else {
		js.jobJobs["cache-cleanup"] = cacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// cleanupExpiredCache performs cleanup of expired cache entries
func (js *JobScheduler) cleanupExpiredCache() error {
	log.Printf("Starting cache cleanup")

	// Redis expires keys by TTL on its own; this is a liveness probe for the
	// cache more than a cleanup.
	if err := js.cacheSvc.Ping(context.Background()); err != nil {
		log.Printf("Cache unreachable during cleanup: %v", err)
		return err
	}

	log.Printf("Cache cleanup completed")
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobJobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobJobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobJobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]string, 0, len(js.jobJobs))
	for name := range js.jobJobs {
		jobs = append(jobs, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobJobs),
		"jobs":       jobs,
	}
}
