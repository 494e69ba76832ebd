/*
Copyright 2024 Lorrybook Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lorrybook

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lorrybook/lorrybook/config"
	redis_db "github.com/lorrybook/lorrybook/internal/redis-db"
)

// TaskReminderSweep is the recurring task that nudges parties about
// settlements stuck with pending payments.
const TaskReminderSweep = "settlement:reminder_sweep"

// Queue wraps the asynq client used to enqueue background tasks.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// ReminderSweepPayload carries the cutoff for the pending payment sweep.
type ReminderSweepPayload struct {
	OlderThan time.Time `json:"older_than"`
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// queueReminderSweep enqueues one reminder sweep run.
func (q *Queue) queueReminderSweep(olderThan time.Time) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ReminderSweepPayload{OlderThan: olderThan})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskReminderSweep, payload, asynq.Queue(cfg.Queue.ReminderQueue))
	info, err := q.Client.Enqueue(task)
	if err != nil {
		return err
	}
	log.Printf("enqueued reminder sweep: id=%s queue=%s", info.ID, info.Queue)
	return nil
}
