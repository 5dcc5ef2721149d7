// Package main implements a small connector-side helper that pushes a
// local file to the data-sink /receive-file endpoint, authenticated by
// the shared secret header.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	backendhttp "github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/server/handler/http"
)

func main() {
	var (
		url    = flag.String("url", "http://localhost:8001/receive-file", "data-sink receive endpoint")
		secret = flag.String("secret", os.Getenv("RECEIVE_SECRET"), "shared secret (defaults to RECEIVE_SECRET env)")
		file   = flag.String("file", "", "path of the file to send")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: sendfile -file <path> [-url <endpoint>] [-secret <token>]")
		os.Exit(2)
	}

	if err := send(*url, *secret, *file); err != nil {
		fmt.Fprintf(os.Stderr, "sendfile: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sent %s\n", filepath.Base(*file))
}

func send(url, secret, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(backendhttp.SecretHeader, secret)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server answered %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
