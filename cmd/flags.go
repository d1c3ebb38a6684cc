package cmd

import (
	"os"

	"github.com/chukul/iamaudit/internal"
	"github.com/spf13/pflag"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	config         string
	profile        string
	region         string
	role           string
	mfaSerial      string
	sessionName    string
	duration       int32
	concurrency    int
	json           bool
	debug          bool
	failOnFindings bool
}

func (g *globalFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&g.config, "config", os.Getenv("IAMAUDIT_CONFIG"), "Config file (default ~/.iamaudit/config.toml)")
	fs.StringVarP(&g.profile, "profile", "p", "", "AWS CLI profile to audit with")
	fs.StringVarP(&g.region, "region", "r", "", "AWS region for the STS and IAM clients")
	fs.StringVar(&g.role, "role", "", "Role ARN to assume before auditing")
	fs.StringVar(&g.mfaSerial, "mfa-serial", "", "MFA device ARN required by --role")
	fs.StringVar(&g.sessionName, "session-name", internal.DefaultSessionName, "STS session name when assuming --role")
	fs.Int32Var(&g.duration, "duration", internal.DefaultDuration, "Assumed role session duration in seconds")
	fs.IntVar(&g.concurrency, "concurrency", internal.DefaultConcurrency, "Parallel GetRole/GetUser calls")
	fs.BoolVar(&g.json, "json", false, "Output results in JSON format for automation")
	fs.BoolVar(&g.debug, "debug", false, "Log AWS search diagnostics to stderr")
	fs.BoolVar(&g.failOnFindings, "fail-on-findings", false, "Exit with status 2 when any entity is reported")
}

// apply overlays the flags the user actually set onto the config file values
func (g *globalFlags) apply(cfg *internal.Config, fs *pflag.FlagSet) error {
	if fs.Changed("profile") {
		cfg.Profile = g.profile
	}
	if fs.Changed("region") {
		cfg.Region = g.region
	}
	if fs.Changed("role") {
		cfg.RoleArn = g.role
	}
	if fs.Changed("mfa-serial") {
		cfg.MfaSerial = g.mfaSerial
	}
	if fs.Changed("session-name") {
		cfg.SessionName = g.sessionName
	}
	if fs.Changed("duration") {
		cfg.Duration = g.duration
	}
	if fs.Changed("concurrency") {
		cfg.Concurrency = g.concurrency
	}
	if g.json {
		cfg.Output = internal.OutputJSON
	}
	return cfg.Validate()
}
