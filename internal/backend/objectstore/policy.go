package objectstore

import (
	"encoding/json"
	"net/url"
	"strings"
)

// PublicPrefixes are the key prefixes anonymous readers may fetch. Image
// messages and avatars store their locator permanently, so locators are
// plain object URLs rather than presigned ones.
var PublicPrefixes = []string{"images/", "avatars/"}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// ReadPolicy is the bucket policy granting anonymous GetObject on
// PublicPrefixes. MinIO buckets get it on start; for S3 it has to be
// installed on the bucket by the operator.
func ReadPolicy(bucket string) string {
	resources := make([]string, 0, len(PublicPrefixes))
	for _, p := range PublicPrefixes {
		resources = append(resources, "arn:aws:s3:::"+bucket+"/"+p+"*")
	}
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  resources,
		}},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

// objectURL joins base and key, escaping each key segment.
func objectURL(base, key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
