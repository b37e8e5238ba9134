// Package config provides configuration parsing for livedom servers.
//
// The configuration is stored in livedom.json next to the binary or in the
// directory passed with --config. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "server": {
//	    "address": ":8080",
//	    "title": "Todos",
//	    "maxSessions": 1000,
//	    "shutdownTimeout": "30s"
//	  },
//	  "session": {
//	    "idleTimeout": "5m",
//	    "heartbeatInterval": "30s"
//	  },
//	  "log": {"level": "debug", "format": "json"},
//	  "metrics": {"enabled": true},
//	  "tracing": {"enabled": false},
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {"bucket": "my-bucket", "prefix": "todo/", "region": "eu-west-1"}
//	  }
//	}
//
// The LIVEDOM_ADDR environment variable overrides server.address.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
