package driver

// Relationship types cannot be query parameters, so they are matched with type(r).
const (
	OutboundLinkSummaryQuery = `
		MATCH (n)-[r]->()
		WHERE id(n) = $internal_id
		RETURN type(r) AS rel_name, count(r) AS rel_count
		ORDER BY rel_name
	`

	InboundLinkSummaryQuery = `
		MATCH (n)<-[r]-()
		WHERE id(n) = $internal_id
		RETURN type(r) AS rel_name, count(r) AS rel_count
		ORDER BY rel_name
	`

	OutboundLinkedRecordsQuery = `
		MATCH (n)-[r]->(m)
		WHERE id(n) = $internal_id AND type(r) = $rel_name
		RETURN id(m) AS internal_id, labels(m) AS node_labels, properties(m) AS props
		ORDER BY internal_id
	`

	InboundLinkedRecordsQuery = `
		MATCH (n)<-[r]-(m)
		WHERE id(n) = $internal_id AND type(r) = $rel_name
		RETURN id(m) AS internal_id, labels(m) AS node_labels, properties(m) AS props
		ORDER BY internal_id
	`
)
