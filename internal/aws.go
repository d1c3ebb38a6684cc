package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AssumeRoleAPI is the part of the STS client used to assume a role
type AssumeRoleAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// CallerIdentityAPI is the part of the STS client used to resolve the account
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// overridden in tests
var newAssumeRoleClient = func(cfg aws.Config) AssumeRoleAPI {
	return sts.NewFromConfig(cfg)
}

// NewSession loads the shared AWS config for the given profile and region and,
// when a role ARN is given, swaps the credentials for the assumed role's.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if opts.RoleArn != "" {
		cfg, err = assumeRole(ctx, newAssumeRoleClient(cfg), cfg, opts)
		if err != nil {
			return nil, err
		}
	}

	return &Session{
		profile: opts.Profile,
		region:  cfg.Region,
		roleArn: opts.RoleArn,
		cfg:     cfg,
	}, nil
}

// NewSessionFromConfig wraps an already resolved aws.Config
func NewSessionFromConfig(profile string, cfg aws.Config) *Session {
	return &Session{
		profile: profile,
		region:  cfg.Region,
		cfg:     cfg,
	}
}

func (s *Session) Profile() string    { return s.profile }
func (s *Session) Region() string     { return s.region }
func (s *Session) RoleArn() string    { return s.roleArn }
func (s *Session) Config() aws.Config { return s.cfg }

func assumeRole(ctx context.Context, client AssumeRoleAPI, cfg aws.Config, opts SessionOptions) (aws.Config, error) {
	sessionName := opts.SessionName
	if sessionName == "" {
		sessionName = DefaultSessionName
	}

	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(opts.RoleArn),
		RoleSessionName: aws.String(sessionName),
	}
	if opts.Duration > 0 {
		input.DurationSeconds = aws.Int32(opts.Duration)
	}

	if opts.MfaSerial != "" {
		if opts.TokenCode == nil {
			return cfg, errors.New("mfa serial given but no way to read the token code")
		}
		code, err := opts.TokenCode()
		if err != nil {
			return cfg, fmt.Errorf("failed to read MFA code: %w", err)
		}
		input.SerialNumber = aws.String(opts.MfaSerial)
		input.TokenCode = aws.String(code)
	}

	out, err := client.AssumeRole(ctx, input)
	if err != nil {
		return cfg, fmt.Errorf("failed to assume role %s: %w", opts.RoleArn, err)
	}
	if out.Credentials == nil {
		return cfg, fmt.Errorf("assume role %s returned no credentials", opts.RoleArn)
	}

	assumed := cfg.Copy()
	assumed.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		aws.ToString(out.Credentials.AccessKeyId),
		aws.ToString(out.Credentials.SecretAccessKey),
		aws.ToString(out.Credentials.SessionToken),
	))
	return assumed, nil
}

// GetCallerIdentity resolves the account and principal behind a session
func GetCallerIdentity(ctx context.Context, client CallerIdentityAPI) (*Identity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// CallerIdentity is GetCallerIdentity using an STS client built from the session
func (s *Session) CallerIdentity(ctx context.Context) (*Identity, error) {
	return GetCallerIdentity(ctx, sts.NewFromConfig(s.cfg))
}
