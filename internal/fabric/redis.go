package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher is a FlowInstaller that publishes southbound events over
// Redis pub/sub channels and caches the latest per-switch route table.
type RedisPublisher struct {
	client *redis.Client
}

type installFlowEvent struct {
	Switch   int `json:"switch"`
	Host     int `json:"host"`
	Port     int `json:"port"`
	Priority int `json:"priority"`
}

type linkEvent struct {
	A int `json:"a"`
	B int `json:"b"`
}

const (
	channelInstallFlow = "rewire:install_flow"
	channelLinkAdd     = "rewire:link_add"
	channelLinkDel     = "rewire:link_del"
)

// NewRedisPublisher connects to Redis using the REDIS_ADDR/REDIS_PASSWORD/
// REDIS_DB environment convention.
func NewRedisPublisher() (*RedisPublisher, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var err error
		db, err = strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: rdb}, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func (p *RedisPublisher) InstallFlow(ctx context.Context, sw, host netstate.SwitchID, port, priority int) error {
	data, err := json.Marshal(installFlowEvent{Switch: int(sw), Host: int(host), Port: port, Priority: priority})
	if err != nil {
		return fmt.Errorf("failed to marshal install_flow event: %w", err)
	}
	if err := p.client.Publish(ctx, channelInstallFlow, data).Err(); err != nil {
		return fmt.Errorf("failed to publish install_flow event: %w", err)
	}
	return p.cacheRoute(ctx, sw, host, port)
}

func (p *RedisPublisher) LinkAdd(ctx context.Context, a, b netstate.SwitchID) error {
	data, err := json.Marshal(linkEvent{A: int(a), B: int(b)})
	if err != nil {
		return fmt.Errorf("failed to marshal link_add event: %w", err)
	}
	return p.client.Publish(ctx, channelLinkAdd, data).Err()
}

func (p *RedisPublisher) LinkDel(ctx context.Context, a, b netstate.SwitchID) error {
	data, err := json.Marshal(linkEvent{A: int(a), B: int(b)})
	if err != nil {
		return fmt.Errorf("failed to marshal link_del event: %w", err)
	}
	return p.client.Publish(ctx, channelLinkDel, data).Err()
}

func (p *RedisPublisher) cacheRoute(ctx context.Context, sw, host netstate.SwitchID, port int) error {
	key := fmt.Sprintf("route:%d:%d", sw, host)
	return p.client.Set(ctx, key, port, 0).Err()
}

// CachedRoute returns the most recently published egress port for
// (sw, host), or ok=false if nothing has been published yet.
func (p *RedisPublisher) CachedRoute(ctx context.Context, sw, host netstate.SwitchID) (port int, ok bool, err error) {
	key := fmt.Sprintf("route:%d:%d", sw, host)
	val, err := p.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return val, true, nil
}
