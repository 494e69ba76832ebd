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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lorrybook/lorrybook"
	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/database"
	"github.com/lorrybook/lorrybook/internal/notification"
)

// Lorrybook represents the CLI application, encapsulating the root command.
type Lorrybook struct {
	cmd *cobra.Command
}

// lorrybookInstance holds the runtime instance and its configuration, shared
// across the subcommands.
type lorrybookInstance struct {
	lorrybook *lorrybook.Lorrybook
	cnf       *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the Lorrybook instance
// before any subcommand executes.
func preRun(app *lorrybookInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("lorrybook.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newLorrybook, err := setupLorrybook(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.lorrybook = newLorrybook
		app.cnf = cnf

		return nil
	}
}

func setupLorrybook(cfg *config.Configuration) (*lorrybook.Lorrybook, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newLorrybook, err := lorrybook.NewLorrybook(db)
	if err != nil {
		return nil, fmt.Errorf("error creating lorrybook: %v", err)
	}
	return newLorrybook, nil
}

// NewCLI builds the command-line interface with the server, worker and
// migration subcommands.
func NewCLI() *Lorrybook {
	var configFile string
	b := &lorrybookInstance{}

	var rootCmd = &cobra.Command{
		Use:   "lorrybook",
		Short: "Fleet books and partner settlements",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./lorrybook.json", "Configuration file for lorrybook")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Lorrybook{cmd: rootCmd}
}

func (w Lorrybook) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
