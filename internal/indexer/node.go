// Package indexer implements a best-effort publish-only gossip feed
// of accepted transact calls, so off-chain indexers can reconstruct
// notes without scanning the whole tree. It does not change on-chain
// semantics (§5: "readers ... observe only committed state").
package indexer

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"

	"github.com/shieldpool/core/pkg/types"
)

// TransactTopic is the single gossip topic this indexer publishes to.
const TransactTopic = "shieldpool/transact-accepted"

// Config holds node configuration.
type Config struct {
	ListenAddrs []string
	PrivateKey  crypto.PrivKey
}

// DefaultConfig returns default node configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddrs: []string{"/ip4/0.0.0.0/tcp/9100"},
	}
}

// Node publishes TransactAccepted events over gossipsub. It never
// subscribes to anything it publishes: it is a one-way feed out of
// the program's hot path, not a consensus participant.
type Node struct {
	host  host.Host
	topic *pubsub.Topic

	ctx    context.Context
	cancel context.CancelFunc
}

// NewNode creates and starts a gossip node.
func NewNode(ctx context.Context, cfg *Config) (*Node, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	nodeCtx, cancel := context.WithCancel(ctx)

	privKey := cfg.PrivateKey
	if privKey == nil {
		var err error
		privKey, _, err = crypto.GenerateKeyPairWithReader(crypto.Ed25519, -1, rand.Reader)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("indexer: generate key: %w", err)
		}
	}

	h, err := libp2p.New(
		libp2p.Identity(privKey),
		libp2p.ListenAddrStrings(cfg.ListenAddrs...),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("indexer: create host: %w", err)
	}

	ps, err := pubsub.NewGossipSub(nodeCtx, h)
	if err != nil {
		h.Close()
		cancel()
		return nil, fmt.Errorf("indexer: create pubsub: %w", err)
	}

	topic, err := ps.Join(TransactTopic)
	if err != nil {
		h.Close()
		cancel()
		return nil, fmt.Errorf("indexer: join topic: %w", err)
	}

	return &Node{host: h, topic: topic, ctx: nodeCtx, cancel: cancel}, nil
}

// TransactAccepted is the event published for each accepted
// transact call.
type TransactAccepted struct {
	NewRoot           types.Hash
	Nullifier0        types.Hash
	Nullifier1        types.Hash
	Commitment0       types.Hash
	Commitment1       types.Hash
	EncryptedOutput1  []byte
	EncryptedOutput2  []byte
}

// PublishTransactAccepted gossips one accepted transact event.
func (n *Node) PublishTransactAccepted(ev *TransactAccepted) error {
	return n.topic.Publish(n.ctx, encodeTransactAccepted(ev))
}

// encodeTransactAccepted serializes an event with the same
// length-prefixed byte-concatenation discipline the extData binder
// uses, so the wire format stays consistent across the program.
func encodeTransactAccepted(ev *TransactAccepted) []byte {
	buf := make([]byte, 0, 5*types.HashSize+8+len(ev.EncryptedOutput1)+len(ev.EncryptedOutput2))
	buf = append(buf, ev.NewRoot.Bytes()...)
	buf = append(buf, ev.Nullifier0.Bytes()...)
	buf = append(buf, ev.Nullifier1.Bytes()...)
	buf = append(buf, ev.Commitment0.Bytes()...)
	buf = append(buf, ev.Commitment1.Bytes()...)
	buf = appendLenPrefixed(buf, ev.EncryptedOutput1)
	buf = appendLenPrefixed(buf, ev.EncryptedOutput2)
	return buf
}

func appendLenPrefixed(buf, data []byte) []byte {
	n := uint32(len(data))
	buf = append(buf, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	return append(buf, data...)
}

// Close shuts down the node.
func (n *Node) Close() error {
	n.cancel()
	if err := n.topic.Close(); err != nil {
		return err
	}
	return n.host.Close()
}

// ID returns the node's host identity summary.
func (n *Node) ID() string {
	return n.host.ID().String()
}
