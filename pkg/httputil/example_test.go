package httputil_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/httputil"
)

func ExampleClient_Fetch() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"1": {"aeldman_name": "I"}}`)
	}))
	defer srv.Close()

	client := httputil.NewClient(cache.NewNullCache(), nil, time.Hour, nil)
	data, err := client.Fetch(context.Background(), srv.URL+"/leylines.json", false)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(string(data))
	// Output:
	// {"1": {"aeldman_name": "I"}}
}

func ExampleBackoff_Retry() {
	attempts := 0
	b := httputil.Backoff{Attempts: 3, Delay: time.Millisecond}
	err := b.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &httputil.RetryableError{Err: fmt.Errorf("connection reset")}
		}
		return nil
	})
	fmt.Println("Attempts:", attempts)
	fmt.Println("Error:", err)
	// Output:
	// Attempts: 2
	// Error: <nil>
}
