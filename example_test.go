package halyard_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Azhovan/halyard"
)

func fakeEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func Example() {
	r := halyard.New("server",
		halyard.EnvPrefix("APP_"),
		halyard.LookupEnv(fakeEnv(map[string]string{"APP_TIMEOUT": "45s"})),
	)
	port := r.Int("port", 8080, "HTTP port")
	timeout := r.Duration("timeout", 30*time.Second, "request timeout")
	host := r.String("host", "localhost", "bind host")

	set, err := r.Resolve(context.Background(), []string{"--port", "9000"})
	if err != nil {
		fmt.Println("resolve:", err)
		return
	}

	fmt.Println("port:", *port)
	fmt.Println("timeout:", *timeout)
	fmt.Println("host:", *host)

	prov, _ := set.Provenance("port")
	fmt.Println("port came from:", prov.Origin)
	// Output:
	// port: 9000
	// timeout: 45s
	// host: localhost
	// port came from: command-line
}

func ExampleResolvedSet_Decode() {
	r := halyard.New("server", halyard.LookupEnv(fakeEnv(nil)))
	r.Int("port", 8080, "HTTP port")
	r.Strings("tag", nil, "tags")

	set, err := r.Resolve(context.Background(), []string{"--tag", "a", "--tag", "b"})
	if err != nil {
		fmt.Println("resolve:", err)
		return
	}

	var cfg struct {
		Port int      `config:"port"`
		Tags []string `config:"tag"`
	}
	if err := set.Decode(&cfg); err != nil {
		fmt.Println("decode:", err)
		return
	}

	fmt.Printf("%d %v\n", cfg.Port, cfg.Tags)
	// Output:
	// 8080 [a b]
}
