// Package redis connects the service to the Redis instance that backs
// the shared tenant directory cache.
//
// It wraps the go-redis client with a retrying Connect and a health-check
// probe. Configuration comes from REDIS_* environment variables via the
// config package.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// The connected client is handed to tenant.NewRedisCache so that multiple
// instances of the service share one resolution cache and invalidation
// takes effect fleet-wide.
package redis
