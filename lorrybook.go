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
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/database"
	redis_db "github.com/lorrybook/lorrybook/internal/redis-db"
)

// Lorrybook is the main application struct. All business operations hang off
// it; the HTTP layer and the workers share one instance.
type Lorrybook struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewLorrybook initializes the application with the provided datasource. It
// fetches the configuration and wires up the Redis client and the task queue.
func NewLorrybook(db database.IDataSource) (*Lorrybook, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	return &Lorrybook{datasource: db, queue: newQueue, redis: redisClient.Client()}, nil
}
