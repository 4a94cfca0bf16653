package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strrl/triage/internal/clinical"
)

// Set with -ldflags "-X github.com/strrl/triage/internal/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionShort bool

type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// resolveBuildInfo prefers linker-injected values and falls back to the
// module and VCS metadata embedded by the go tool.
func resolveBuildInfo(bi *debug.BuildInfo, ok bool) buildInfo {
	info := buildInfo{
		Version:   Version,
		Commit:    GitCommit,
		Date:      BuildDate,
		GoVersion: runtime.Version(),
	}
	if !ok || bi == nil {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and model-contract information",
	Long: `Print the triage version, git commit, build date and Go toolchain, plus the
feature slot order expected by the diagnostic model.`,
	// Version output never depends on configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		info := resolveBuildInfo(debug.ReadBuildInfo())
		out := cmd.OutOrStdout()

		if versionShort {
			fmt.Fprintln(out, info.Version)
			return
		}

		fmt.Fprintf(out, "triage %s\n", info.Version)
		fmt.Fprintf(out, "  commit:   %s\n", info.Commit)
		fmt.Fprintf(out, "  built:    %s\n", info.Date)
		fmt.Fprintf(out, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(out, "  features: [%s]\n", strings.Join(clinical.FeatureNames[:], ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version string")
}
