// Command test_scheme pushes URIs through the scheme handler without opening
// a window and prints what the webview would receive.
package main

import (
	"flag"
	"fmt"
	"os"

	"webshell/internal/logger"
	"webshell/internal/protocol"
	"webshell/internal/resource"
)

func main() {
	root := flag.String("root", "", "资源根目录，默认当前目录")
	profile := flag.String("profile", "fs", "fs | bundle | restricted | auto")
	flag.Parse()

	uris := flag.Args()
	if len(uris) == 0 {
		uris = []string{"wry://index.html"}
	}

	logger.SetLevel(logger.DEBUG)
	defer logger.Default().Close()

	resolver, err := resource.ForProfile(*profile, *root)
	if err != nil {
		fmt.Printf("resolver error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("resolver: %s (local=%v)\n", resolver.Kind(), resolver.Local())

	h := protocol.NewHandler(resolver)
	for i, uri := range uris {
		fmt.Printf("\n=== Step %d: %s ===\n", i+1, uri)
		resp := h.Handle(protocol.Request{URI: uri, Method: "GET"})
		fmt.Printf("HTTP %d, Content-Type: %q, %d bytes\n", resp.Status, resp.ContentType, len(resp.Body))
		fmt.Println(logger.TruncateBody(string(resp.Body), 300))
	}
}
