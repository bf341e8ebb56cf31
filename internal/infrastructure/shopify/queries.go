package shopify

// Documentos GraphQL del Admin API. El tamaño de página llega por variable;
// no es una constante de corrección.

const productsQuery = `
query productSync($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    edges {
      node {
        id
        title
        vendor
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              price
              inventoryItem { id }
            }
          }
        }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const inventoryLevelsQuery = `
query inventoryLevels($id: ID!) {
  inventoryItem(id: $id) {
    id
    inventoryLevels(first: 50) {
      edges {
        node {
          location { id name }
          quantities(names: ["available"]) { name quantity }
        }
      }
    }
  }
}`

const productVendorsQuery = `
query vendors($first: Int!, $after: String) {
  shop {
    productVendors(first: $first, after: $after) {
      edges { node }
      pageInfo { hasNextPage endCursor }
    }
  }
}`
