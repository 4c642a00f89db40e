package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const ecommerceDescription = "E-commerce app with Node.js backend, MongoDB, S3 storage"

// ecommerceAuditJSON is a conforming VariantPoC response for ecommerceDescription.
const ecommerceAuditJSON = `{
  "techStack": {
    "os": "Linux",
    "webServer": "Nginx",
    "database": "MongoDB",
    "frontend": "React",
    "backend": "Node.js (Express)"
  },
  "threatModel": [
    {"vector": "NoSQL Injection", "severity": "High", "description": "Unsanitised query operators reach MongoDB."},
    {"vector": "Public S3 Bucket", "severity": "Critical", "description": "Uploads bucket may allow anonymous listing."},
    {"vector": "Verbose Errors", "severity": "Low", "description": "Stack traces leak framework versions."}
  ],
  "reconPlan": [
    {"tool": "nmap", "command": "nmap -sV -p 80,443 shop.example.com", "objective": "Fingerprint exposed services."},
    {"tool": "curl", "command": "curl -s https://shop-uploads.s3.amazonaws.com/?list-type=2", "objective": "Check bucket listing."}
  ],
  "vulnerabilityLogic": [
    {"feature": "Profile picture upload", "weakness": "Object keys derived from user IDs.", "mitigation": "Use random keys and per-user authorization checks."}
  ],
  "bugBountyReports": [
    {
      "title": "Insecure Direct Object Reference on Upload Endpoint",
      "vulnerabilityType": "IDOR",
      "impact": "Any authenticated user can overwrite another user's profile picture.",
      "stepsToReproduce": [
        "Log in as user A and upload a picture via /api/upload.",
        "Replay the request with user B's ID in the userId field.",
        "Fetch user B's profile and observe the replaced picture."
      ],
      "validationPayload": "curl -X POST https://shop.example.com/api/upload -H 'Authorization: Bearer A' -F userId=B -F file=@poc.png",
      "pocExplainer": "Show that the server trusts the client-supplied userId.",
      "expectedOutcome": "User B's avatar is replaced by poc.png."
    }
  ],
  "summary": "The application exposes object-level authorization flaws around file uploads."
}`

// mutateFixture decodes ecommerceAuditJSON, applies fn, and re-encodes it.
func mutateFixture(t *testing.T, fn func(m map[string]any)) string {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(ecommerceAuditJSON), &m))
	fn(m)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	return string(data)
}

func firstReport(m map[string]any) map[string]any {
	return m["bugBountyReports"].([]any)[0].(map[string]any)
}
