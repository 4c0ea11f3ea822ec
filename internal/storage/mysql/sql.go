package mysql

const propertyColumns = `
  id, title, price, address, city, state, zip_code, property_type,
  bedrooms, bathrooms, square_feet, year_built, description,
  images, features, listing_date, status`

const selectAllSQL = `SELECT` + propertyColumns + `
FROM properties
ORDER BY id`

const selectByIDSQL = `SELECT` + propertyColumns + `
FROM properties
WHERE id = ?`

// Row lock for read-merge-write updates.
const selectForUpdateSQL = selectByIDSQL + ` FOR UPDATE`

const insertPropertySQL = `
INSERT INTO properties
  (title, price, address, city, state, zip_code, property_type,
   bedrooms, bathrooms, square_feet, year_built, description,
   images, features, listing_date, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Used by the seeder so re-runs keep dataset identities stable.
const upsertPropertySQL = `
INSERT INTO properties
  (id, title, price, address, city, state, zip_code, property_type,
   bedrooms, bathrooms, square_feet, year_built, description,
   images, features, listing_date, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title         = VALUES(title),
  price         = VALUES(price),
  address       = VALUES(address),
  city          = VALUES(city),
  state         = VALUES(state),
  zip_code      = VALUES(zip_code),
  property_type = VALUES(property_type),
  bedrooms      = VALUES(bedrooms),
  bathrooms     = VALUES(bathrooms),
  square_feet   = VALUES(square_feet),
  year_built    = VALUES(year_built),
  description   = VALUES(description),
  images        = VALUES(images),
  features      = VALUES(features),
  listing_date  = VALUES(listing_date),
  status        = VALUES(status),
  updated_at    = CURRENT_TIMESTAMP
`

const updatePropertySQL = `
UPDATE properties SET
  title = ?, price = ?, address = ?, city = ?, state = ?, zip_code = ?,
  property_type = ?, bedrooms = ?, bathrooms = ?, square_feet = ?,
  year_built = ?, description = ?, images = ?, features = ?,
  listing_date = ?, status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deletePropertySQL = `DELETE FROM properties WHERE id = ?`
