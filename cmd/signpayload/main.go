// Command signpayload prints the YAYA-SIGNATURE header for a webhook payload,
// for exercising the receiver by hand:
//
//	signpayload -now payload.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ManuelReschke/YayaHook/internal/pkg/env"
	"github.com/ManuelReschke/YayaHook/internal/pkg/webhook"
)

func main() {
	now := flag.Bool("now", false, "replace the timestamp field with the current time before signing")
	secretFlag := flag.String("secret", "", "shared secret (default: YAYA_WEBHOOK_SECRET)")
	flag.Parse()

	env.SetupEnvFile()
	secret := *secretFlag
	if secret == "" {
		secret = env.GetEnv("YAYA_WEBHOOK_SECRET", env.GetEnv("SECRET_KEY", ""))
	}
	if secret == "" {
		log.Fatal("no secret: pass -secret or set YAYA_WEBHOOK_SECRET")
	}

	body, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("read payload: %v", err)
	}
	fields, err := webhook.ParseFields(body)
	if err != nil {
		log.Fatalf("parse payload: %v", err)
	}
	if *now {
		fields[webhook.FieldTimestamp] = json.Number(strconv.FormatInt(time.Now().Unix(), 10))
	}

	out, err := json.Marshal(fields)
	if err != nil {
		log.Fatalf("encode payload: %v", err)
	}
	fmt.Printf("%s: %s\n", webhook.SignatureHeader, webhook.NewVerifier(secret).Sign(fields))
	fmt.Println(string(out))
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
