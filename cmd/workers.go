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

package main

import (
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/lorrybook/lorrybook"
	"github.com/lorrybook/lorrybook/config"
	redis_db "github.com/lorrybook/lorrybook/internal/redis-db"
)

func initializeQueues(conf *config.Configuration) map[string]int {
	queues := make(map[string]int)
	queues[conf.Queue.ReminderQueue] = 1
	return queues
}

func redisClientOpt(conf *config.Configuration) (asynq.RedisClientOpt, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.RedisClientOpt{
		Addr:      redisOption.Addr,
		Password:  redisOption.Password,
		DB:        redisOption.DB,
		TLSConfig: redisOption.TLSConfig,
	}, nil
}

func initializeWorkerServer(opt asynq.RedisClientOpt, queues map[string]int) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues:      queues,
	})
}

func initializeTaskHandlers(b *lorrybookInstance, mux *asynq.ServeMux) {
	mux.HandleFunc(lorrybook.TaskReminderSweep, b.lorrybook.ProcessReminderSweep)
}

// startReminderScheduler runs the cron that enqueues the daily payment
// reminder sweep.
func startReminderScheduler(opt asynq.RedisClientOpt, conf *config.Configuration) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(opt, nil)

	task := asynq.NewTask(lorrybook.TaskReminderSweep, nil)
	_, err := scheduler.Register(conf.Queue.ReminderSchedule, task, asynq.Queue(conf.Queue.ReminderQueue))
	if err != nil {
		return nil, fmt.Errorf("error registering reminder schedule: %v", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("error starting scheduler: %v", err)
	}
	return scheduler, nil
}

// workerCommands defines the "workers" command that consumes the reminder
// queue and runs the reminder scheduler.
func workerCommands(b *lorrybookInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start lorrybook workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			opt, err := redisClientOpt(conf)
			if err != nil {
				log.Fatal(err)
			}

			queues := initializeQueues(conf)
			srv := initializeWorkerServer(opt, queues)

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			scheduler, err := startReminderScheduler(opt, conf)
			if err != nil {
				log.Fatal(err)
			}
			defer scheduler.Shutdown()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
