package supervisor_test

import (
	"fmt"

	"github.com/highperapp/reliacore/config"
	"github.com/highperapp/reliacore/supervisor"
)

func ExampleSupervisor_Stats() {
	sup := supervisor.NewSupervisor(supervisor.Config{
		WorkerCount:        4,
		DeploymentStrategy: config.StrategyRolling,
	})

	stats := sup.Stats()
	fmt.Println("worker_count:", stats.WorkerCount)
	fmt.Println("running:", stats.Running)
	fmt.Println("deployment_strategy:", stats.DeploymentStrategy)
	fmt.Println("zero_downtime_enabled:", stats.ZeroDowntimeEnabled)
	// Output:
	// worker_count: 4
	// running: 0
	// deployment_strategy: rolling
	// zero_downtime_enabled: true
}

func ExampleSupervisor_Stats_noStrategy() {
	sup := supervisor.NewSupervisor(supervisor.Config{WorkerCount: 1})
	fmt.Println(sup.Stats().ZeroDowntimeEnabled)
	// Output:
	// false
}
