package graph

// Cypher statements for the batch loader. Every node merge keys on the
// natural source id and overwrites properties with SET, so a chunk can be
// re-applied without duplicating anything. Relationship-only records
// (order items, events) MATCH their endpoints instead of merging them: a
// missing endpoint must never materialize as a bare placeholder node.
const (
	// upsertCategories merges Category nodes by id.
	upsertCategories = `
UNWIND $rows AS row
MERGE (c:Category {id: row.id})
SET c.name = row.name
`

	// upsertProducts merges Product nodes and attaches them to their
	// already-loaded Category. Returns how many IN_CATEGORY relationships
	// the chunk touched so the caller can detect a missing category.
	upsertProducts = `
UNWIND $rows AS row
MERGE (p:Product {id: row.id})
SET p.name = row.name,
    p.price = row.price
WITH p, row
MATCH (c:Category {id: row.category_id})
MERGE (p)-[r:IN_CATEGORY]->(c)
RETURN count(r) AS affected
`

	// upsertCustomers merges Customer nodes by id.
	upsertCustomers = `
UNWIND $rows AS row
MERGE (c:Customer {id: row.id})
SET c.name = row.name,
    c.join_date = row.join_date
`

	// upsertOrders merges Order nodes and attaches PLACED from the
	// already-loaded Customer. The customer is matched, never created.
	upsertOrders = `
UNWIND $rows AS row
MERGE (o:Order {id: row.id})
SET o.ts = row.ts
WITH o, row
MATCH (c:Customer {id: row.customer_id})
MERGE (c)-[r:PLACED]->(o)
RETURN count(r) AS affected
`

	// upsertOrderItems creates CONTAINS between existing Order and Product
	// nodes only.
	upsertOrderItems = `
UNWIND $rows AS row
MATCH (o:Order {id: row.order_id})
MATCH (p:Product {id: row.product_id})
MERGE (o)-[r:CONTAINS]->(p)
SET r.quantity = row.quantity
RETURN count(r) AS affected
`

	// upsertEvents creates one behavioral relationship per event between
	// existing Customer and Product nodes, keyed by the event's own id.
	// The relationship type cannot be parameterized in Cypher; the loader
	// interpolates a validated type into the %s.
	upsertEvents = `
UNWIND $rows AS row
MATCH (c:Customer {id: row.customer_id})
MATCH (p:Product {id: row.product_id})
MERGE (c)-[r:%s {id: row.id}]->(p)
SET r.ts = row.ts
RETURN count(r) AS affected
`
)
