package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/target/gatehouse/config"
)

// ConnectRedis builds the configured client and pings it once.
//
//nolint:ireturn // direct, sentinel and cluster clients share redis.UniversalClient.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	client, target, err := NewRedisClient(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis: %w", err), client.Close())
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "target", redactAddr(target))
	}
	return client, nil
}

// NewRedisClient returns an unconnected client plus a short description of its
// target. UseCluster wins over UseSentinel; neither means a single node at URI.
//
//nolint:ireturn // direct, sentinel and cluster clients share redis.UniversalClient.
func NewRedisClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	switch {
	case cfg.UseCluster:
		opts, err := clusterOptions(cfg)
		if err != nil {
			return nil, "", err
		}
		return redis.NewClusterClient(opts.Cluster()), "cluster:" + strings.Join(opts.Addrs, ","), nil

	case cfg.UseSentinel:
		nodes := trimAll(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		opts := &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}
		return redis.NewFailoverClient(opts.Failover()), "sentinel:" + cfg.SentinelMasterName, nil

	default:
		uri := strings.TrimSpace(cfg.URI)
		if uri == "" {
			return nil, "", errors.New("redis direct configuration requires a URI")
		}
		opts, err := nodeOptions(uri, cfg.Password)
		if err != nil {
			return nil, "", err
		}
		return redis.NewClient(opts.Simple()), uri, nil
	}
}

func clusterOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	if nodes := trimAll(cfg.ClusterNodes); len(nodes) > 0 {
		return &redis.UniversalOptions{Addrs: nodes, Password: cfg.Password}, nil
	}
	// Without a node list the URI seeds cluster discovery.
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis cluster configuration requires at least one address")
	}
	return nodeOptions(uri, cfg.Password)
}

// nodeOptions reads a redis:// or rediss:// URL, or a bare host:port. Credentials
// in the URL take precedence over password.
func nodeOptions(uri, password string) (*redis.UniversalOptions, error) {
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: password}, nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts := &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}
	if opts.Password == "" {
		opts.Password = password
	}
	return opts, nil
}

func trimAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// redactAddr drops credentials from a target description before logging.
func redactAddr(addr string) string {
	if u, err := url.Parse(addr); err == nil && u.User != nil {
		u.User = nil
		return u.String()
	}
	if _, host, ok := strings.Cut(addr, "@"); ok {
		return host
	}
	return addr
}
