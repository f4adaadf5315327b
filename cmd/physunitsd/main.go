/*
Physunitsd starts a physunits evaluation server and begins listening for new
connections.

Usage:

	physunitsd [flags]
	physunitsd [flags] -l [[ADDRESS]:PORT]

Once started, the physunits server will listen for HTTP requests and respond
to them using REST protocol. By default, it will listen on localhost:8080.
This can be changed with the --listen/-l flag (or config via environment
var). The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the IP address preceeded by a colon, such as
":6001".

If a JWT token secret is not given, one will be automatically generated. As
a consequence, in this mode of operation all tokens are rendered invalid as
soon as the server shuts down. This is suitable for testing, but must be
given via either CLI flags or environment variable if running in
production.

The flags are:

	-v, --version
		Give the current version of the physunits server and then exit.

	-c, --config FILE
		Use the provided unit catalog JSON configuration to evaluate
		expressions against. Defaults to "config.json".

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable PHYSUNITS_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable PHYSUNITS_TOKEN_SECRET. If no secret is
		specified or an empty secret is given, a random secret will be
		automatically generated. Note that any tokens issued with a random
		secret will become invalid as soon as the server shuts down.

	-a, --api-secret API_SECRET
		The passphrase clients must present to POST /token to receive a JWT
		good for POSTing new evaluations. If not given, will default to the
		value of environment variable PHYSUNITS_API_SECRET. If no API secret
		is specified, a random one is generated and logged once at startup.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory such as sqlite:path/to/db_dir. If not
		given, will default to the value of environment variable
		PHYSUNITS_DATABASE. If no DB driver is specified, an in-memory
		database is automatically selected.
*/
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/physunits"
	"github.com/dekarrin/physunits/internal/version"
	"github.com/dekarrin/physunits/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen    = "PHYSUNITS_LISTEN_ADDRESS"
	EnvSecret    = "PHYSUNITS_TOKEN_SECRET"
	EnvAPISecret = "PHYSUNITS_API_SECRET"
	EnvDB        = "PHYSUNITS_DATABASE"
)

var (
	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of the physunits server and then exit.")
	flagConfig    = pflag.StringP("config", "c", "config.json", "Use the given unit catalog JSON configuration.")
	flagListen    = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagAPISecret = pflag.StringP("api-secret", "a", "", "Use the given passphrase for the /token exchange.")
	flagDB        = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port, err := parseListenAddr()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	dbConn, err := parseDBConnString()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	tokSecret := parseTokenSecret()
	apiSecret := parseAPISecret()

	cfg := server.Config{
		TokenSecret: tokSecret,
		APISecret:   apiSecret,
		DB:          dbConn,
	}
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL invalid config: %s", err.Error())
	}

	f, err := physunits.New(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load %s: %s", *flagConfig, err.Error())
	}

	srv, err := server.New(cfg, f)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting physunits server %s...", version.Current)
	if err := srv.ServeForever(addr, port); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func parseListenAddr() (addr string, port int, err error) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080, nil
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}

	return bindParts[0], port, nil
}

func parseDBConnString() (server.Database, error) {
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		return server.Database{Type: server.DatabaseInMemory}, nil
	}

	db, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		return server.Database{}, fmt.Errorf("not a valid DB string: %w", err)
	}
	return db, nil
}

func parseTokenSecret() []byte {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	if tokSecStr == "" {
		tokSecret := make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			log.Fatalf("FATAL could not generate token secret: %s", err.Error())
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > server.MaxSecretSize {
		log.Fatalf("FATAL token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}

	return tokSecret
}

func parseAPISecret() string {
	apiSecret := os.Getenv(EnvAPISecret)
	if pflag.Lookup("api-secret").Changed {
		apiSecret = *flagAPISecret
	}

	if apiSecret == "" {
		raw := make([]byte, 24)
		if _, err := rand.Read(raw); err != nil {
			log.Fatalf("FATAL could not generate API secret: %s", err.Error())
		}
		apiSecret = base64.RawURLEncoding.EncodeToString(raw)
		log.Printf("WARN  Using generated API secret, shown once: %s", apiSecret)
	}

	return apiSecret
}
