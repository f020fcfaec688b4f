package jobs

import (
	"log"
	"time"

	"railporter-server/database"
	"railporter-server/models"
)

// staleAfter is how long a porter can go without a heartbeat before the
// matcher stops offering them bookings
const staleAfter = 15 * time.Minute

// PresenceJob marks porters offline when their last_seen_at goes stale,
// so "first online porter at the station" matching stays honest.
type PresenceJob struct {
	stopChan chan bool
}

// NewPresenceJob creates a new presence job
func NewPresenceJob() *PresenceJob {
	return &PresenceJob{
		stopChan: make(chan bool),
	}
}

// Start begins the presence job
func (j *PresenceJob) Start() {
	go j.run()
	log.Println("🚀 Porter presence job started")
}

// Stop stops the presence job
func (j *PresenceJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Porter presence job stopped")
}

func (j *PresenceJob) run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweepStalePorters()
		case <-j.stopChan:
			return
		}
	}
}

// sweepStalePorters flips stale online porters to offline
func (j *PresenceJob) sweepStalePorters() {
	cutoff := time.Now().Add(-staleAfter)

	result := database.DB.Model(&models.Porter{}).
		Where("is_online = ? AND (last_seen_at IS NULL OR last_seen_at < ?)", true, cutoff).
		Update("is_online", false)
	if result.Error != nil {
		log.Printf("❌ Error sweeping stale porters: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("⚠️ Marked %d stale porter(s) offline", result.RowsAffected)
	}
}
