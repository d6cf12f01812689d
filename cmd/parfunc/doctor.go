package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/example/go-parfunc/internal/coord"
	"github.com/example/go-parfunc/internal/doctor"
	"github.com/example/go-parfunc/internal/kernels"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the runtime environment and dispatch path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				NumCPU:              runtime.NumCPU(),
				Workers:             cfg.Runtime.Workers,
				EagerLaunch:         cfg.Runtime.EagerLaunch,
				PrimitiveRegistered: coord.Registered(),
				SelfTest:            dispatchSelfTest,
			}

			res := doctor.Run(dcfg, cmd.OutOrStdout())
			if res.Failed() {
				return fmt.Errorf("doctor found %d problem(s)", len(res.Failures()))
			}
			return nil
		},
	}
}

// dispatchSelfTest runs a small add kernel through the pool and verifies the
// result against the sequential reference.
func dispatchSelfTest() error {
	spec, err := kernels.Lookup("add")
	if err != nil {
		return err
	}

	_, err = runCase(caseOptions{Spec: spec, N: 1024})
	return err
}
