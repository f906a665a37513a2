package store

// price travels as text so decimals keep their exact representation.
const queryInsertObservation = `
INSERT INTO observations (run_id, observed_at, product_name, price, availability, url)
VALUES (NULLIF(@run_id::text, ''), @observed_at, @product_name, (@price::text)::numeric, @availability, @url)`
