package acme

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/providers/http/webroot"
	"github.com/go-acme/lego/v4/registration"
)

// LegoConfig configures the lego-backed Client.
type LegoConfig struct {
	// WebrootDir is the directory the reverse proxy serves at
	// /.well-known/acme-challenge/. The HTTP-01 solver drops
	// validation tokens there.
	WebrootDir string

	// Staging selects the Let's Encrypt staging directory. Production
	// otherwise.
	Staging bool

	// DirectoryURL overrides the CA directory entirely when set, which
	// is how tests point the client at a local ACME server (pebble).
	DirectoryURL string

	// KeyType is the certificate key type. Defaults to EC256.
	KeyType certcrypto.KeyType
}

// LegoClient implements Client on top of go-acme/lego with an HTTP-01
// webroot solver.
type LegoClient struct {
	cfg LegoConfig

	// factory and accountKeyMaker are swappable for tests.
	factory         func(*lego.Config) (orderer, error)
	accountKeyMaker func() (crypto.PrivateKey, error)
}

// orderer is the subset of the lego client the Obtain flow needs.
type orderer interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	Obtain(request certificate.ObtainRequest) (*certificate.Resource, error)
}

// ParseKeyType maps a configuration key type name onto the lego key
// type constant.
func ParseKeyType(name string) (certcrypto.KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ec256":
		return certcrypto.EC256, nil
	case "ec384":
		return certcrypto.EC384, nil
	case "rsa2048":
		return certcrypto.RSA2048, nil
	case "rsa4096":
		return certcrypto.RSA4096, nil
	default:
		return "", fmt.Errorf("unknown key type %q", name)
	}
}

// NewLegoClient creates a Client that orders certificates through the
// configured ACME directory.
func NewLegoClient(cfg LegoConfig) (*LegoClient, error) {
	if strings.TrimSpace(cfg.WebrootDir) == "" {
		return nil, errors.New("challenge webroot directory is required")
	}
	if cfg.KeyType == "" {
		cfg.KeyType = certcrypto.EC256
	}

	return &LegoClient{
		cfg:     cfg,
		factory: newLegoOrderer,
		accountKeyMaker: func() (crypto.PrivateKey, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		},
	}, nil
}

// DirectoryURL returns the effective CA directory URL.
func (c *LegoClient) DirectoryURL() string {
	if c.cfg.DirectoryURL != "" {
		return c.cfg.DirectoryURL
	}
	if c.cfg.Staging {
		return lego.LEDirectoryStaging
	}
	return lego.LEDirectoryProduction
}

// Obtain orders a certificate for the full domain set in one request.
// Failures are returned as *OrderError carrying their classification.
func (c *LegoClient) Obtain(ctx context.Context, req OrderRequest) (*IssuedCertificate, error) {
	if len(req.Domains) == 0 {
		return nil, &OrderError{Class: ClassValidation, Err: errors.New("no domains in order request")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accountKey, err := c.accountKeyMaker()
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}

	user := &account{email: req.Email, key: accountKey}

	legoCfg := lego.NewConfig(user)
	legoCfg.CADirURL = c.DirectoryURL()
	legoCfg.Certificate.KeyType = c.cfg.KeyType

	client, err := c.factory(legoCfg)
	if err != nil {
		return nil, classified(fmt.Errorf("create acme client: %w", err))
	}

	provider, err := webroot.NewHTTPProvider(c.cfg.WebrootDir)
	if err != nil {
		return nil, classified(fmt.Errorf("configure webroot solver: %w", err))
	}
	if err := client.SetHTTP01Provider(provider); err != nil {
		return nil, classified(fmt.Errorf("set http-01 provider: %w", err))
	}

	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, classified(fmt.Errorf("register acme account: %w", err))
	}
	user.registration = reg

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := client.Obtain(certificate.ObtainRequest{
		Domains: req.Domains,
		Bundle:  true,
	})
	if err != nil {
		return nil, classified(fmt.Errorf("obtain certificate: %w", err))
	}

	if len(res.Certificate) == 0 {
		return nil, &OrderError{Class: ClassUnknown, Err: errors.New("empty certificate payload from CA")}
	}
	if len(res.PrivateKey) == 0 {
		return nil, &OrderError{Class: ClassUnknown, Err: errors.New("empty private key from CA")}
	}

	return &IssuedCertificate{
		ChainPEM:  res.Certificate,
		KeyPEM:    res.PrivateKey,
		IssuerPEM: res.IssuerCertificate,
	}, nil
}

func classified(err error) error {
	return &OrderError{Class: Classify(err), Err: err}
}

func newLegoOrderer(cfg *lego.Config) (orderer, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &legoOrderer{client: client}, nil
}

type legoOrderer struct {
	client *lego.Client
}

func (l *legoOrderer) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options)
}

func (l *legoOrderer) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider)
}

func (l *legoOrderer) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	return l.client.Certificate.Obtain(request)
}

// account satisfies lego's registration.User.
type account struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (a *account) GetEmail() string {
	return a.email
}

func (a *account) GetRegistration() *registration.Resource {
	return a.registration
}

func (a *account) GetPrivateKey() crypto.PrivateKey {
	return a.key
}
