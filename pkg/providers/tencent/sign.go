package tencent

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const (
	algorithm = "TC3-HMAC-SHA256"
	service   = "tmt"
	action    = "TextTranslateBatch"
	version   = "2018-03-21"
	// 参与签名的头部
	signedHeaders = "content-type;host"
)

// Signature 一次请求的签名结果
type Signature struct {
	Timestamp     string
	Authorization string
}

// Sign 按 TC3-HMAC-SHA256 对请求体签名，参考 https://cloud.tencent.com/document/api/551/30636
func Sign(secretID, secretKey, host string, payload []byte, now time.Time) Signature {
	now = now.UTC()
	timestamp := strconv.FormatInt(now.Unix(), 10)
	date := now.Format("2006-01-02")

	canonicalRequest := fmt.Sprintf("POST\n/\n\ncontent-type:application/json\nhost:%s\n\n%s\n%s",
		host, signedHeaders, sha256Hex(payload))

	credentialScope := date + "/" + service + "/tc3_request"
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm, timestamp, credentialScope, sha256Hex([]byte(canonicalRequest)))

	secretDate := hmacSHA256([]byte("TC3"+secretKey), date)
	secretService := hmacSHA256(secretDate, service)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	return Signature{
		Timestamp: timestamp,
		Authorization: fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
			algorithm, secretID, credentialScope, signedHeaders, signature),
	}
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
