package main

// openAPIDocument is a static OpenAPI 3 description of the read-only HTTP
// surface in spec.md §6, standing in for original_source's utoipa-generated
// document (Go has no equivalent macro-driven generator in the retrieved
// pack, so this is hand-written and kept in sync with internal/httpapi).
const openAPIDocument = `openapi: 3.0.3
info:
  title: txp2p node API
  version: "1.0.0"
paths:
  /api/v1/peer/discovery:
    get:
      summary: List known peers
      responses:
        '200':
          description: array of PeerId strings
  /api/v1/peer/signed-message:
    get:
      summary: List signed transactions
      responses:
        '200':
          description: array of JSON-encoded Transaction
  /api/v1/peer/relayed-transaction:
    get:
      summary: List relayed transaction signatures
      responses:
        '200':
          description: array of signature strings
  /api/v1/peer/relayed-transaction/{signature}:
    get:
      summary: Fetch a relayed transaction's on-chain detail
      parameters:
        - name: signature
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: EncodedConfirmedTransaction
`
