package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kvshepherd-labs/ledgerkeep/internal/dataset"
	depotfs "github.com/kvshepherd-labs/ledgerkeep/internal/depot/fs"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger/integrity"
	rkfs "github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper/fs"
)

// manifestFile is the on-disk record of how a dataset directory was
// bootstrapped: which integrity regime it runs under for its whole
// lifetime (spec.md §4.3 — a dataset never switches regimes).
type manifestFile struct {
	Name      string `yaml:"name"`
	Integrity string `yaml:"integrity"`
	CreatedAt string `yaml:"created_at"`
}

// keyFile is the serialized Ed25519 key pair a signed-mode dataset's
// bootstrap owner signs with. ledgerctl keeps exactly one signing identity
// per dataset directory; a real deployment would hold one per author.
type keyFile struct {
	SigningKey string `yaml:"signing_key"`
	VerifyKey  string `yaml:"verify_key"`
}

const (
	manifestName = "manifest.yaml"
	keyFileName  = "keys.yaml"

	integrityHashChain = "hashchain"
	integritySigned    = "signed"
)

func datasetDir(storeRoot, name string) string {
	return filepath.Join(storeRoot, name)
}

func writeManifest(dir string, m manifestFile) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func readManifest(dir string) (manifestFile, error) {
	var m manifestFile
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

func writeKeyFile(dir string, kp *integrity.KeyPair) error {
	serialized := kp.Serialize()
	data, err := yaml.Marshal(keyFile{
		SigningKey: serialized["signing_key"],
		VerifyKey:  serialized["verify_key"],
	})
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, keyFileName), data, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func readKeyFile(dir string) (*integrity.KeyPair, error) {
	data, err := os.ReadFile(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	return integrity.DeserializeKeyPair(map[string]string{
		"signing_key": kf.SigningKey,
		"verify_key":  kf.VerifyKey,
	})
}

// eventLinker abstracts over the two mutually exclusive integrity regimes
// so every subcommand can build an event, then hand it to link without
// caring which regime the dataset runs under.
type eventLinker interface {
	link(event ledger.Event, author string) error
}

type hashChainLink struct{ l *integrity.HashChainLinker }

func (h hashChainLink) link(event ledger.Event, author string) error {
	return h.l.Link(event, author)
}

// signedLink discards the caller-supplied author: Signer.Sign always
// stamps Author with the signing key's own hex-encoded public key,
// matching the engine's self-describing-author contract.
type signedLink struct{ s *integrity.Signer }

func (s signedLink) link(event ledger.Event, _ string) error {
	return s.s.Sign(event)
}

// openDataset reads a dataset directory's manifest and wires up its Depot,
// RecordKeeper, Dataset, and eventLinker. The directory must already have
// been created by "dataset init".
func openDataset(storeRoot, name string) (*dataset.Dataset, eventLinker, error) {
	dir := datasetDir(storeRoot, name)
	m, err := readManifest(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %q is not initialized: %w", name, err)
	}

	rk, err := rkfs.New(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open record keeper: %w", err)
	}
	d, err := depotfs.New(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open depot: %w", err)
	}

	switch m.Integrity {
	case integritySigned:
		kp, err := readKeyFile(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("load signing key: %w", err)
		}
		ds := dataset.New(name, d, rk, dataset.IntegritySigned)
		return ds, signedLink{s: integrity.NewSigner(kp.SigningKey)}, nil
	default:
		ds := dataset.New(name, d, rk, dataset.IntegrityHashChain)
		return ds, hashChainLink{l: integrity.NewHashChainLinker(rk)}, nil
	}
}

// initDataset creates a fresh dataset directory, bootstraps its integrity
// regime, and seeds its owner roster with a single self-signed
// OwnerAddEvent — the only way a dataset's roster can ever become
// non-empty (spec.md §3.6 invariant: the roster starts empty and the
// first owner_add is necessarily self-authored).
func initDataset(storeRoot, name, integrityMode, owner string) (string, error) {
	dir := datasetDir(storeRoot, name)
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err == nil {
		return "", fmt.Errorf("dataset %q already initialized at %s", name, dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset directory: %w", err)
	}

	rk, err := rkfs.New(dir)
	if err != nil {
		return "", fmt.Errorf("create record keeper: %w", err)
	}
	d, err := depotfs.New(dir)
	if err != nil {
		return "", fmt.Errorf("create depot: %w", err)
	}

	var (
		ds     *dataset.Dataset
		linker eventLinker
		author string
	)

	switch integrityMode {
	case integritySigned:
		kp, err := integrity.NewKeyPair()
		if err != nil {
			return "", fmt.Errorf("generate signing key: %w", err)
		}
		if err := writeKeyFile(dir, kp); err != nil {
			return "", err
		}
		if owner == "" {
			owner = fmt.Sprintf("%x", kp.VerifyKey)
		}
		ds = dataset.New(name, d, rk, dataset.IntegritySigned)
		linker = signedLink{s: integrity.NewSigner(kp.SigningKey)}
		author = owner
	case integrityHashChain:
		if owner == "" {
			return "", fmt.Errorf("--owner is required for hashchain-mode datasets")
		}
		ds = dataset.New(name, d, rk, dataset.IntegrityHashChain)
		linker = hashChainLink{l: integrity.NewHashChainLinker(rk)}
		author = owner
	default:
		return "", fmt.Errorf("unknown integrity mode %q (want %q or %q)", integrityMode, integrityHashChain, integritySigned)
	}

	event := ledger.NewOwnerAddEvent(owner, author)
	if err := linker.link(event, author); err != nil {
		return "", fmt.Errorf("link bootstrap owner_add event: %w", err)
	}
	if err := ds.ProcessEvent(cliContext(), event); err != nil {
		return "", fmt.Errorf("process bootstrap owner_add event: %w", err)
	}

	if err := writeManifest(dir, manifestFile{
		Name:      name,
		Integrity: integrityMode,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return "", err
	}

	return owner, nil
}

// cliContext is the background context every subcommand's single
// ProcessEvent call runs under. A CLI invocation has no request deadline
// to propagate; Dataset.ProcessEvent's cancellation contract still applies
// to any future caller that wraps this with a timeout.
func cliContext() context.Context {
	return context.Background()
}
